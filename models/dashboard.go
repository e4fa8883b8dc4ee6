package models

import "time"

type DashboardStats struct {
	ActiveUsers      int                   `json:"active_users"`
	MatchesTotal     int                   `json:"matches_total"`
	ActiveMatches    int                   `json:"active_matches"`
	CompletedMatches int                   `json:"completed_matches"`
	RevenueThisMonth int64                 `json:"revenue_this_month"`
	PaymentsByStatus map[PaymentStatus]int `json:"payments_by_status"`
	RecentMatches    []*Match              `json:"recent_matches"`
	RecentUsers      []*User               `json:"recent_users"`
}

type DailyAmount struct {
	Day    time.Time `json:"day"`
	Count  int       `json:"count"`
	Amount int64     `json:"amount"`
}

type Analytics struct {
	Days         int           `json:"days"`
	Revenue      []DailyAmount `json:"revenue"`
	Matches      []DailyAmount `json:"matches"`
	Signups      []DailyAmount `json:"signups"`
	TotalRevenue int64         `json:"total_revenue"`
}

type MatchCounts struct {
	Played    int `json:"played"`
	Organized int `json:"organized"`
	Upcoming  int `json:"upcoming"`
}

type PaymentSummary struct {
	TotalPaid int64               `json:"total_paid"`
	Recent    []*PaymentWithMatch `json:"recent"`
}

// UserStatsSummary: сводка для страницы профиля.
type UserStatsSummary struct {
	Matches       MatchCounts    `json:"matches"`
	Payments      PaymentSummary `json:"payments"`
	AverageRating float64        `json:"avg_rating"`
	Profile       *User          `json:"profile"`
}

// Page описывает параметры постраничной выдачи.
type Page struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
}

func NewPage(page, limit, total int) Page {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Page{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNext:     (page-1)*limit+limit < total,
		HasPrev:     page > 1,
	}
}
