package admin

import (
	"context"
	"testing"

	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		overview  models.Overview
		series    []models.AnalyticsPoint
		wantAvg   float64
		wantBest  string
		wantRides int
		wantRev   float64
	}{
		{
			name:     "period figures",
			overview: models.Overview{TotalRevenue: 10_000, TotalRides: 100},
			series: []models.AnalyticsPoint{
				{Label: "Mon", Rides: 4, Revenue: 50},
				{Label: "Tue", Rides: 6, Revenue: 75},
				{Label: "Wed", Rides: 0, Revenue: 0},
			},
			wantAvg:   12.5,
			wantBest:  "Tue",
			wantRides: 10,
			wantRev:   125,
		},
		{
			name:      "no period rides falls back to totals",
			overview:  models.Overview{TotalRevenue: 300, TotalRides: 12},
			wantAvg:   25,
			wantBest:  "N/A",
			wantRides: 0,
			wantRev:   0,
		},
		{
			name:     "nothing at all",
			wantAvg:  0,
			wantBest: "N/A",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize(tc.overview, models.Analytics{Series: tc.series})
			if got.AverageFare != tc.wantAvg {
				t.Fatalf("average fare = %v, want %v", got.AverageFare, tc.wantAvg)
			}
			if got.BestPeriodLabel != tc.wantBest {
				t.Fatalf("best period = %q, want %q", got.BestPeriodLabel, tc.wantBest)
			}
			if got.PeriodRides != tc.wantRides || got.PeriodRevenue != tc.wantRev {
				t.Fatalf("period = %d rides / %v revenue, want %d / %v", got.PeriodRides, got.PeriodRevenue, tc.wantRides, tc.wantRev)
			}
			if got.Points == nil {
				t.Fatalf("points must never be nil")
			}
		})
	}
}

func TestFinance_StampsTimeframe(t *testing.T) {
	api := &fakeBackend{
		overview:  models.Overview{TotalRevenue: 99.5, RevenueToday: 10},
		analytics: models.Analytics{Series: []models.AnalyticsPoint{{Label: "Jan", Rides: 2, Revenue: 40}}},
	}
	svc, _ := newTestService(api, &recordingAudit{})

	got, err := svc.Finance(context.Background(), "MONTH")
	if err != nil {
		t.Fatalf("Finance: %v", err)
	}
	if got.Timeframe != "month" || !got.GeneratedAt.Equal(fixedNow) {
		t.Fatalf("unexpected stamp %q %v", got.Timeframe, got.GeneratedAt)
	}
	if got.AverageFare != 20 || got.TotalRevenue != 99.5 {
		t.Fatalf("unexpected summary %+v", got)
	}
	if api.calls != 2 {
		t.Fatalf("expected overview + analytics calls, got %d", api.calls)
	}
}
