package service

import (
	"context"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/you/go-resale-pricing/internal/providers"
)

func valToPtr[T any](param T) *T {
	return &param
}

func TestSuggestUsesProviderData(t *testing.T) {
	prov := ProviderMock{name: "p1",
		offers: activeOffers(50, 60, 70, 80, 90, 100, 110, 120, 130, 140),
		stats:  providers.EventAggregateStats{TotalOffers: 42},
	}

	svc := NewSuggestService(prov, 5*time.Second, 5*time.Second)
	res := svc.Suggest(context.Background(), "evt-1", nil)

	require.Equal(t, 120.0, res.SuggestedPrice)
	require.Equal(t, 10, res.RecentOffersConsidered)
	require.Equal(t, 42, res.TotalOffers)
}

func TestSuggestProviderErrorFallback(t *testing.T) {
	prov := ProviderMock{name: "p1",
		errorOutMessage: valToPtr("API Request Fail"),
	}

	svc := NewSuggestService(prov, 5*time.Second, 5*time.Second)
	res := svc.Suggest(context.Background(), "evt-1", nil)

	// fetch failures degrade to engine defaults, never to an error
	require.Equal(t, 85.0, res.SuggestedPrice)
	require.Equal(t, 0, res.RecentOffersConsidered)
	require.Equal(t, 0, res.TotalOffers)
}

func TestSuggestTimeoutFallback(t *testing.T) {
	prov := ProviderMock{name: "p1",
		offers: activeOffers(90, 95, 100),
		stats:  providers.EventAggregateStats{TotalOffers: 7, AverageListingPrice: 200},
		delay:  2 * time.Second,
	}

	svc := NewSuggestService(prov, 100*time.Millisecond, 5*time.Second)
	res := svc.Suggest(context.Background(), "evt-1", nil)

	// the offers fetch times out; the stats fetch is instant, so the
	// fallback is driven by the listing average
	require.Equal(t, 0, res.RecentOffersConsidered)
	require.Equal(t, 170.0, res.SuggestedPrice)
	require.Equal(t, 7, res.TotalOffers)
}

func TestSuggestCacheHit(t *testing.T) {
	var calls int32

	prov := ProviderMock{name: "p1",
		callCount: &calls,
		offers:    activeOffers(150),
		stats:     providers.EventAggregateStats{TotalOffers: 3},
	}

	s := NewSuggestService(prov, 5*time.Second, 1*time.Second)

	ctx := context.Background()
	res1 := s.Suggest(ctx, "evt-9", []string{"112"})
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls after first suggest: got %d, want 1", got)
	}

	{
		// Same key -> should hit cache, not call provider again
		res2 := s.Suggest(ctx, "evt-9", []string{"112"})
		if got := atomic.LoadInt32(&calls); got != 1 {
			t.Fatalf("provider should not have been called on cache hit; calls=%d", got)
		}
		if !reflect.DeepEqual(res1, res2) {
			t.Fatalf("cached result differs from original\nres1=%+v\nres2=%+v", res1, res2)
		}
	}

	time.Sleep(2 * time.Second)

	{
		res2 := s.Suggest(ctx, "evt-9", []string{"112"})
		if got := atomic.LoadInt32(&calls); got != 2 {
			t.Fatalf("provider should have been called after TTL expiry; calls=%d", got)
		}
		if !reflect.DeepEqual(res1, res2) {
			t.Fatalf("refreshed result differs from original\nres1=%+v\nres2=%+v", res1, res2)
		}
	}
}

func TestSuggestCacheKeyNormalizesSections(t *testing.T) {
	var calls int32

	prov := ProviderMock{name: "p1",
		callCount: &calls,
		offers:    activeOffers(150),
	}

	s := NewSuggestService(prov, 5*time.Second, 5*time.Second)

	ctx := context.Background()
	_ = s.Suggest(ctx, "evt-9", []string{"112", "113"})
	_ = s.Suggest(ctx, "evt-9", []string{"113", "112"})

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("section order must not change the cache key; calls=%d", got)
	}

	// a different event id is a different entry
	_ = s.Suggest(ctx, "evt-10", []string{"112", "113"})
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("distinct event must miss the cache; calls=%d", got)
	}
}
