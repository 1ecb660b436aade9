package models

import "time"

// Overview holds the dashboard KPIs.
type Overview struct {
	TotalRides     int     `json:"total_rides"`
	TotalUsers     int     `json:"total_users"`
	TotalDrivers   int     `json:"total_drivers"`
	ActiveDrivers  int     `json:"active_drivers"`
	TotalRevenue   float64 `json:"total_revenue"`
	PendingTickets int     `json:"pending_tickets"`
	RidesToday     int     `json:"rides_today"`
	RevenueToday   float64 `json:"revenue_today"`
	RecentRides    []Ride  `json:"recent_rides"`
}

type Analytics struct {
	Timeframe string           `json:"timeframe"`
	Series    []AnalyticsPoint `json:"series"`
}

type AnalyticsPoint struct {
	Label   string  `json:"label"`
	Rides   int     `json:"rides"`
	Revenue float64 `json:"revenue"`
}

// FinanceSummary is derived locally from Overview and Analytics.
type FinanceSummary struct {
	Timeframe       string           `json:"timeframe"`
	GeneratedAt     time.Time        `json:"generated_at"`
	TotalRevenue    float64          `json:"total_revenue"`
	RevenueToday    float64          `json:"revenue_today"`
	PeriodRevenue   float64          `json:"period_revenue"`
	PeriodRides     int              `json:"period_rides"`
	AverageFare     float64          `json:"average_fare"`
	BestPeriodLabel string           `json:"best_period_label"`
	Points          []AnalyticsPoint `json:"points"`
}
