package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/you/go-resale-pricing/internal/config"
)

// Marketplace talks to the resale marketplace REST API: one endpoint for
// the recent buyer offers of an event, one for the event-level rollup.
type Marketplace struct {
	host       string
	offersPath string
	statsPath  string
	token      string
	limit      int
	client     *http.Client
}

func NewMarketplace(cfg *config.Config) *Marketplace {
	return &Marketplace{host: cfg.MarketplaceHost,
		offersPath: "/v1/events/%s/offers",
		statsPath:  "/v1/events/%s/stats",
		token:      cfg.MarketplaceToken,
		limit:      cfg.OfferLimit,
		client:     http.DefaultClient,
	}
}

func (m *Marketplace) Name() string {
	return "marketplace"
}

type marketplaceOffer struct {
	MaxPrice   string   `json:"max_price"`
	SectionIDs []string `json:"section_ids"`
	Status     string   `json:"status"`
	CreatedAt  string   `json:"created_at"`
}

type marketplaceOffersResp struct {
	Data struct {
		Offers []marketplaceOffer `json:"offers"`
	} `json:"data"`
}

func (m *Marketplace) RecentOffers(ctx context.Context, eventID string) ([]OfferRecord, error) {
	if m.token == "" {
		return nil, errors.New("marketplace token missing")
	}

	u := fmt.Sprintf("%s%s?status=ACTIVE&sort=created_at&limit=%d",
		m.host,
		fmt.Sprintf(m.offersPath, url.PathEscape(eventID)),
		m.limit)

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	req.Header.Set("Authorization", "Bearer "+m.token)
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("marketplace offers: %s", resp.Status)
	}

	var pr marketplaceOffersResp
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, err
	}

	var out []OfferRecord
	for _, o := range pr.Data.Offers {
		price, err := strconv.ParseFloat(o.MaxPrice, 64)
		if err != nil || price <= 0 {
			continue
		}
		out = append(out, OfferRecord{
			MaxPrice:   price,
			SectionIDs: o.SectionIDs,
			Status:     OfferStatus(o.Status),
			CreatedAt:  parseMarketplaceTime(o.CreatedAt),
		})
	}
	return out, nil
}

func (m *Marketplace) AggregateStats(ctx context.Context, eventID string) (EventAggregateStats, error) {
	if m.token == "" {
		return EventAggregateStats{}, errors.New("marketplace token missing")
	}

	u := m.host + fmt.Sprintf(m.statsPath, url.PathEscape(eventID))

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	req.Header.Set("Authorization", "Bearer "+m.token)
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return EventAggregateStats{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return EventAggregateStats{}, fmt.Errorf("marketplace stats: %s", resp.Status)
	}

	var payload struct {
		Data struct {
			TotalOffers         int    `json:"total_offers"`
			AverageListingPrice string `json:"average_listing_price"`
			AverageOfferPrice   string `json:"average_offer_price"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return EventAggregateStats{}, err
	}

	listing, _ := strconv.ParseFloat(payload.Data.AverageListingPrice, 64)
	offer, _ := strconv.ParseFloat(payload.Data.AverageOfferPrice, 64)
	return EventAggregateStats{
		TotalOffers:         payload.Data.TotalOffers,
		AverageListingPrice: listing,
		AverageOfferPrice:   offer,
	}, nil
}

func parseMarketplaceTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
