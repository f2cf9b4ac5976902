package normalize

import (
	"sort"

	"github.com/bobmcallan/polyfolio/internal/models"
)

// SectorExposures totals position value per sector. Percentages are of the
// summed value and are 0 when the total is not positive. Sectors with no
// positions are omitted; the result is ordered by value, largest first.
func SectorExposures(positions []models.Position) []models.SectorExposure {
	totals := make(map[models.Sector]float64)
	var total float64
	for _, pos := range positions {
		totals[pos.Sector] += pos.Value
		total += pos.Value
	}

	out := make([]models.SectorExposure, 0, len(totals))
	for _, sector := range Sectors() {
		value, ok := totals[sector]
		if !ok {
			continue
		}
		exp := models.SectorExposure{Sector: sector, Value: Round2(value)}
		if total > 0 {
			exp.Percentage = Round2(value / total * 100)
		}
		out = append(out, exp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}
