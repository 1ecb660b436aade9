package admin

import (
	"context"
	"fmt"
	"math"

	"github.com/Temutjin2k/qglide-admin/internal/adapter/qglide"
	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
)

// Finance builds the financial overview from the dashboard KPIs and the ride
// analytics for one timeframe.
func (s *Service) Finance(ctx context.Context, timeframe string) (models.FinanceSummary, error) {
	const op = "AdminService.Finance"

	tf, err := types.ParseTimeframe(timeframe)
	if err != nil {
		return models.FinanceSummary{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	overview, err := s.api.Overview(ctx)
	if err != nil {
		return models.FinanceSummary{}, err
	}
	analytics, err := s.api.RidesAnalytics(ctx, tf)
	if err != nil {
		return models.FinanceSummary{}, err
	}

	summary := Summarize(overview, analytics)
	summary.Timeframe = string(tf)
	summary.GeneratedAt = s.clock.Now().UTC()
	return summary, nil
}

// Summarize derives finance figures. The average fare comes from the
// period when it has rides, else from the all-time totals.
func Summarize(overview models.Overview, analytics models.Analytics) models.FinanceSummary {
	sum := models.FinanceSummary{
		Timeframe:       analytics.Timeframe,
		TotalRevenue:    roundCents(overview.TotalRevenue),
		RevenueToday:    roundCents(overview.RevenueToday),
		BestPeriodLabel: qglide.NotAvailable,
		Points:          make([]models.AnalyticsPoint, 0, len(analytics.Series)),
	}

	best := -1.0
	for _, p := range analytics.Series {
		sum.PeriodRevenue += p.Revenue
		sum.PeriodRides += p.Rides
		if p.Revenue > best {
			best = p.Revenue
			sum.BestPeriodLabel = p.Label
		}
		sum.Points = append(sum.Points, p)
	}
	sum.PeriodRevenue = roundCents(sum.PeriodRevenue)

	switch {
	case sum.PeriodRides > 0:
		sum.AverageFare = roundCents(sum.PeriodRevenue / float64(sum.PeriodRides))
	case overview.TotalRides > 0:
		sum.AverageFare = roundCents(overview.TotalRevenue / float64(overview.TotalRides))
	}
	return sum
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
