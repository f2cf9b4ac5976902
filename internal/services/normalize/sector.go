package normalize

import (
	"strings"

	"github.com/bobmcallan/polyfolio/internal/models"
)

type sectorRule struct {
	Sector   models.Sector
	Keywords []string
}

// sectorRules is checked top to bottom; the first rule with a keyword
// contained in the lower-cased market text wins.
var sectorRules = []sectorRule{
	{models.SectorPolitics, []string{"president", "election", "political"}},
	{models.SectorCrypto, []string{"bitcoin", "crypto", "ethereum", "btc", "eth"}},
	{models.SectorTechnology, []string{"ai", "technology", "tech"}},
	{models.SectorEconomics, []string{"fed", "rate", "economic", "inflation"}},
	{models.SectorSports, []string{"sport", "nfl", "nba", "soccer"}},
}

// ClassifySector assigns market text to a sector by substring keyword match.
func ClassifySector(text string) models.Sector {
	lower := strings.ToLower(text)
	for _, rule := range sectorRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Sector
			}
		}
	}
	return models.SectorOther
}

// Sectors lists every sector in classification order, Other last.
func Sectors() []models.Sector {
	out := make([]models.Sector, 0, len(sectorRules)+1)
	for _, rule := range sectorRules {
		out = append(out, rule.Sector)
	}
	return append(out, models.SectorOther)
}
