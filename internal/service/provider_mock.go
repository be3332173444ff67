package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/you/go-resale-pricing/internal/providers"
)

type ProviderMock struct {
	name            string
	offers          []providers.OfferRecord
	stats           providers.EventAggregateStats
	delay           time.Duration
	errorOutMessage *string
	callCount       *int32
}

func (p ProviderMock) Name() string {
	return p.name
}

func (p ProviderMock) RecentOffers(ctx context.Context, eventID string) ([]providers.OfferRecord, error) {
	if p.callCount != nil {
		atomic.AddInt32(p.callCount, 1)
	}
	if p.errorOutMessage != nil {
		return nil, errors.New(p.Name() + ": " + *p.errorOutMessage)
	}
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.offers, nil
}

func (p ProviderMock) AggregateStats(ctx context.Context, eventID string) (providers.EventAggregateStats, error) {
	if p.errorOutMessage != nil {
		return providers.EventAggregateStats{}, errors.New(p.Name() + ": " + *p.errorOutMessage)
	}
	return p.stats, nil
}
