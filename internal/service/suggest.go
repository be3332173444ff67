package service

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/you/go-resale-pricing/internal/providers"
	"golang.org/x/sync/errgroup"
)

type cacheEntry struct {
	value     PriceSuggestion
	expiresAt time.Time
}

// SuggestService fetches an event's recent offers and aggregate stats and
// runs the price-suggestion engine over them. Results are cached per
// event id + normalized section filter with a TTL; the engine itself
// stays stateless.
type SuggestService struct {
	provider     providers.OfferHistoryProvider
	cache        map[string]cacheEntry
	mu           sync.RWMutex
	fetchTimeout time.Duration
	cacheTTL     time.Duration
}

func NewSuggestService(prov providers.OfferHistoryProvider, timeout, ttl time.Duration) *SuggestService {
	return &SuggestService{
		provider:     prov,
		cache:        make(map[string]cacheEntry),
		fetchTimeout: timeout,
		cacheTTL:     ttl,
	}
}

func (s *SuggestService) cacheKey(eventID string, sections []string) string {
	if len(sections) == 0 {
		return eventID
	}
	norm := append([]string(nil), sections...)
	sort.Strings(norm)
	return eventID + "|" + strings.Join(norm, ",")
}

// Suggest never fails: upstream fetch errors are logged and absorbed by
// calling the engine with an empty history and zeroed stats, so callers
// always get a structurally valid suggestion.
func (s *SuggestService) Suggest(ctx context.Context, eventID string, sections []string) PriceSuggestion {
	key := s.cacheKey(eventID, sections)
	// fast cache path
	s.mu.RLock()
	if ce, ok := s.cache[key]; ok && time.Now().Before(ce.expiresAt) {
		s.mu.RUnlock()
		return ce.value
	}
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	var offers []providers.OfferRecord
	var aggregate providers.EventAggregateStats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recent, err := s.provider.RecentOffers(ctx, eventID)
		if err != nil {
			log.Printf("%s: recent offers for %s: %v", s.provider.Name(), eventID, err)
			return nil
		}
		offers = recent
		return nil
	})
	g.Go(func() error {
		stats, err := s.provider.AggregateStats(ctx, eventID)
		if err != nil {
			log.Printf("%s: aggregate stats for %s: %v", s.provider.Name(), eventID, err)
			return nil
		}
		aggregate = stats
		return nil
	})
	_ = g.Wait()

	res := ComputeSuggestion(offers, aggregate, sections)

	s.mu.Lock()
	s.cache[key] = cacheEntry{value: res, expiresAt: time.Now().Add(s.cacheTTL)}
	s.mu.Unlock()

	return res
}
