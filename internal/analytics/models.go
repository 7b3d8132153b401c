package analytics

// BookingStats aggregates bookings. Money totals cover paid bookings that
// were not cancelled; UnpaidEarnings is what is still owed to guides.
type BookingStats struct {
	TotalBookings   int64            `json:"total_bookings"`
	ByStatus        map[string]int64 `json:"by_status"`
	GrossRevenue    float64          `json:"gross_revenue"`
	CommissionTotal float64          `json:"commission_total"`
	GuideEarnings   float64          `json:"guide_earnings"`
	UnpaidEarnings  float64          `json:"unpaid_earnings"`
}

type GuideStats struct {
	BookingStats
	ActiveTours int64 `json:"active_tours"`
}

type PlatformStats struct {
	BookingStats
	UsersByRole           map[string]int64 `json:"users_by_role"`
	PendingGuideApprovals int64            `json:"pending_guide_approvals"`
	ActiveTours           int64            `json:"active_tours"`
}

type moneyTotals struct {
	Gross      float64
	Commission float64
	Earnings   float64
}

type groupCount struct {
	Name  string
	Count int64
}
