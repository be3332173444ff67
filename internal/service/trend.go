package service

import "time"

type MonthPoint struct {
	Month    string  `json:"month"` // YYYY-MM
	AvgPrice float64 `json:"avg_price"`
	Currency string  `json:"currency"`
}

// TrendService returns a synthetic, deterministic monthly series of
// average offer prices per event. In real life, back this with a DB and
// ingest from the marketplace.
type TrendService struct{}

func NewTrendService() *TrendService {
	return &TrendService{}
}

func (t *TrendService) MonthlyAverages(eventID string, months int) []MonthPoint {
	if months <= 0 {
		months = 12
	}
	base := 90.0
	// simple deterministic variance based on event id length
	salt := float64(len(eventID) * 11)
	now := time.Now().UTC()
	out := make([]MonthPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := now.AddDate(0, -i, 0)
		season := 1.0
		// touring season and holiday shows push offers up
		if m.Month() == time.June || m.Month() == time.July || m.Month() == time.December {
			season = 1.3
		}
		price := base*season + float64((i%4)*8) + salt
		out = append(out, MonthPoint{Month: m.Format("2006-01"), AvgPrice: round2(price), Currency: "USD"})
	}
	return out
}

func round2(v float64) float64 { return float64(int(v*100+0.5)) / 100 }
