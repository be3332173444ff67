package service

import (
	"math"
	"sort"

	"github.com/you/go-resale-pricing/internal/providers"
)

// defaultBasePrice anchors the fallback suggestion when the event has no
// offer history and no usable aggregate averages.
const defaultBasePrice = 100.0

type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

type PriceSuggestion struct {
	SuggestedPrice         float64    `json:"suggested_price"`
	AveragePrice           float64    `json:"average_price"`
	MedianPrice            float64    `json:"median_price"`
	MinPrice               float64    `json:"min_price"`
	MaxPrice               float64    `json:"max_price"`
	TotalOffers            int        `json:"total_offers"`
	RecentOffersConsidered int        `json:"recent_offers_considered"`
	PriceRange             PriceRange `json:"price_range"`
}

// ComputeSuggestion derives a recommended maximum offer price from the
// recent offer history of an event, optionally restricted to the given
// seating sections. It is pure and total: any input, including an empty
// offer list and zeroed aggregate stats, yields a usable suggestion.
//
// Only ACTIVE offers count as comparable. An empty sections filter keeps
// every offer; an offer with no section ids matches any filter. With no
// comparable offers the suggestion falls back to the event's aggregate
// averages (listing average first, then offer average, then a flat
// default). Otherwise the statistics are nearest-rank order statistics
// over the comparable prices sorted ascending: the median is the element
// at index n/2, the suggested price the 75th-percentile element, and the
// competitive range spans the 25th to 90th percentile elements.
func ComputeSuggestion(offers []providers.OfferRecord, aggregate providers.EventAggregateStats, sections []string) PriceSuggestion {
	prices := comparablePrices(offers, sections)
	if len(prices) == 0 {
		return fallbackSuggestion(aggregate)
	}

	sort.Float64s(prices)
	n := len(prices)

	sum := 0.0
	for _, p := range prices {
		sum += p
	}

	return PriceSuggestion{
		SuggestedPrice:         roundUnit(prices[rankIndex(n, 0.75)]),
		AveragePrice:           roundUnit(sum / float64(n)),
		MedianPrice:            roundUnit(prices[n/2]),
		MinPrice:               roundUnit(prices[0]),
		MaxPrice:               roundUnit(prices[n-1]),
		TotalOffers:            aggregate.TotalOffers,
		RecentOffersConsidered: n,
		PriceRange: PriceRange{
			Low:  roundUnit(prices[rankIndex(n, 0.25)]),
			High: roundUnit(prices[rankIndex(n, 0.9)]),
		},
	}
}

func comparablePrices(offers []providers.OfferRecord, sections []string) []float64 {
	var out []float64
	for _, o := range offers {
		if o.Status != providers.StatusActive {
			continue
		}
		if !matchesSections(o.SectionIDs, sections) {
			continue
		}
		out = append(out, o.MaxPrice)
	}
	return out
}

// matchesSections reports whether an offer restricted to offerSections is
// comparable under the given filter. An empty filter accepts everything;
// an offer without section ids applies to any section.
func matchesSections(offerSections, filter []string) bool {
	if len(filter) == 0 || len(offerSections) == 0 {
		return true
	}
	for _, want := range filter {
		for _, have := range offerSections {
			if have == want {
				return true
			}
		}
	}
	return false
}

func fallbackSuggestion(aggregate providers.EventAggregateStats) PriceSuggestion {
	base := aggregate.AverageListingPrice
	if base <= 0 {
		base = aggregate.AverageOfferPrice
	}
	if base <= 0 {
		base = defaultBasePrice
	}

	// An offer should undercut the asking price, hence the 15% haircut on
	// the listing-derived base.
	return PriceSuggestion{
		SuggestedPrice:         roundUnit(base * 0.85),
		AveragePrice:           roundUnit(base),
		MedianPrice:            roundUnit(base),
		MinPrice:               roundUnit(base * 0.5),
		MaxPrice:               roundUnit(base * 1.5),
		TotalOffers:            aggregate.TotalOffers,
		RecentOffersConsidered: 0,
		PriceRange: PriceRange{
			Low:  roundUnit(base * 0.6),
			High: roundUnit(base * 1.2),
		},
	}
}

// rankIndex is the nearest-rank index for percentile q over n sorted
// samples, clamped to a valid position.
func rankIndex(n int, q float64) int {
	idx := int(float64(n) * q)
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// roundUnit rounds to the nearest whole currency unit, half up.
func roundUnit(v float64) float64 { return math.Floor(v + 0.5) }
