package wallet

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/polyfolio/internal/models"
	"github.com/bobmcallan/polyfolio/internal/services/normalize"
)

// untitledMarketIDs returns the distinct market ids, in first-seen order,
// of records that carry no market text of their own.
func untitledMarketIDs(positions, activity []models.Record) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(rec models.Record, titleKeys ...normalize.Keys) {
		for _, keys := range titleKeys {
			if normalize.Text(rec, keys, "") != "" {
				return
			}
		}
		id := normalize.Text(rec, normalize.MarketIDKeys, "")
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	for _, rec := range positions {
		add(rec, normalize.PositionTitleKeys, normalize.EmbeddedTitleKeys)
	}
	for _, rec := range activity {
		add(rec, normalize.ActivityTitleKeys)
	}
	return ids
}

// lookupMarkets resolves market descriptors in batches. Requests inside a
// batch run concurrently and batches are separated by the configured delay.
// Failed lookups are logged and skipped.
func (s *Service) lookupMarkets(ctx context.Context, ids []string) models.MarketLookup {
	lookup := make(models.MarketLookup, len(ids))
	if len(ids) == 0 {
		return lookup
	}

	size := s.config.LookupBatchSize
	if size <= 0 {
		size = 10
	}
	delay := s.config.GetLookupBatchDelay()

	var mu sync.Mutex
	for start := 0; start < len(ids); start += size {
		if start > 0 && !sleepCtx(ctx, delay) {
			break
		}

		end := min(start+size, len(ids))
		var g errgroup.Group
		for _, id := range ids[start:end] {
			g.Go(func() error {
				rec, err := s.client.GetCondition(ctx, id)
				if err != nil {
					s.logger.Debug().Str("market_id", id).Err(err).Msg("Market lookup failed")
					return nil
				}
				mu.Lock()
				lookup[id] = rec
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}

	s.logger.Debug().Int("requested", len(ids)).Int("resolved", len(lookup)).Msg("Market lookups complete")
	return lookup
}

// sleepCtx waits for d, returning false if ctx ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
