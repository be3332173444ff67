package service

import (
	"reflect"
	"testing"
	"time"
)

// Helper to check monotonic month order with YYYY-MM format.
// Since it's YYYY-MM lexicographically increasing == chronologically increasing.
func isMonotonicMonths(points []MonthPoint) bool {
	for i := 1; i < len(points); i++ {
		if points[i-1].Month > points[i].Month {
			return false
		}
	}
	return true
}

func TestMonthlyAverages_LengthAndDefaults(t *testing.T) {
	svc := NewTrendService()

	out := svc.MonthlyAverages("evt-1", 3)
	if got, want := len(out), 3; got != want {
		t.Fatalf("length: got %d, want %d", got, want)
	}

	out2 := svc.MonthlyAverages("evt-1", 0) // defaults to 12
	if got, want := len(out2), 12; got != want {
		t.Fatalf("default length: got %d, want %d", got, want)
	}

	out3 := svc.MonthlyAverages("evt-1", -5) // also defaults to 12
	if got, want := len(out3), 12; got != want {
		t.Fatalf("negative months -> default length: got %d, want %d", got, want)
	}
}

func TestMonthlyAverages_OrderFormatCurrency(t *testing.T) {
	svc := NewTrendService()
	const months = 6

	out := svc.MonthlyAverages("evt-1", months)

	// Order: oldest -> newest
	if !isMonotonicMonths(out) {
		t.Fatalf("months are not in monotonically increasing (oldest->newest) order")
	}

	// Last month should be current UTC month (format YYYY-MM)
	nowMonth := time.Now().UTC().Format("2006-01")
	if got := out[len(out)-1].Month; got != nowMonth {
		t.Fatalf("last month: got %q, want %q", got, nowMonth)
	}

	// All currencies should be USD
	for i, mp := range out {
		if mp.Currency != "USD" {
			t.Fatalf("currency at idx %d: got %q, want %q", i, mp.Currency, "USD")
		}
	}
}

func TestMonthlyAverages_DeterministicValues(t *testing.T) {
	svc := NewTrendService()
	eventID := "evt-12345"
	const months = 7

	out := svc.MonthlyAverages(eventID, months)

	// Recompute expected values from the same formula the service uses.
	base := 90.0
	salt := float64(len(eventID) * 11)

	for idx, mp := range out {
		i := months - 1 - idx // matches the generator's "i" for this row

		// Derive season from the returned month string.
		mt, err := time.Parse("2006-01", mp.Month)
		if err != nil {
			t.Fatalf("bad month format at idx %d: %q: %v", idx, mp.Month, err)
		}
		season := 1.0
		switch mt.Month() {
		case time.June, time.July, time.December:
			season = 1.3
		}

		expected := base*season + float64((i%4)*8) + salt
		expected = round2(expected) // use the same rounding as production

		if mp.AvgPrice != expected {
			t.Fatalf("price at idx %d (%s): got %.2f, want %.2f", idx, mp.Month, mp.AvgPrice, expected)
		}
	}
}

func TestMonthlyAverages_DeterministicAcrossCalls(t *testing.T) {
	svc := NewTrendService()
	const months = 9

	out1 := svc.MonthlyAverages("evt-77", months)
	out2 := svc.MonthlyAverages("evt-77", months)

	if !reflect.DeepEqual(out1, out2) {
		t.Fatalf("results differ across calls with same inputs\nout1=%v\nout2=%v", out1, out2)
	}
}

func TestMonthlyAverages_SingleMonth(t *testing.T) {
	svc := NewTrendService()
	out := svc.MonthlyAverages("evt-5", 1)
	if len(out) != 1 {
		t.Fatalf("got %d points, want 1", len(out))
	}
	// The only month should be the current UTC month
	nowMonth := time.Now().UTC().Format("2006-01")
	if out[0].Month != nowMonth {
		t.Fatalf("month: got %q, want %q", out[0].Month, nowMonth)
	}
}
