package providers

import (
	"context"
	"time"
)

type OfferStatus string

const (
	StatusActive    OfferStatus = "ACTIVE"
	StatusAccepted  OfferStatus = "ACCEPTED"
	StatusExpired   OfferStatus = "EXPIRED"
	StatusCancelled OfferStatus = "CANCELLED"
)

// OfferRecord is one historical buyer offer for an event. Empty SectionIDs
// means the offer applies to any section.
type OfferRecord struct {
	MaxPrice   float64     `json:"max_price"`
	SectionIDs []string    `json:"section_ids"`
	Status     OfferStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

// EventAggregateStats is the event-level rollup maintained upstream.
// Averages may be zero when the event has no data yet.
type EventAggregateStats struct {
	TotalOffers         int     `json:"total_offers"`
	AverageListingPrice float64 `json:"average_listing_price"`
	AverageOfferPrice   float64 `json:"average_offer_price"`
}

type OfferHistoryProvider interface {
	Name() string
	RecentOffers(ctx context.Context, eventID string) ([]OfferRecord, error)
	AggregateStats(ctx context.Context, eventID string) (EventAggregateStats, error)
}
