package domain

import "time"

// Session history statuses with dedicated rendering.
const (
	SessionActive  = "active"
	SessionExpired = "expired"
)

// DashboardSummary holds the headline counters for the dashboard cards.
type DashboardSummary struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalSessions int     `json:"totalSessions"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// RevenueRecord is one point of the revenue history.
type RevenueRecord struct {
	ID      string    `json:"_id"`
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
}

// SessionRecord is one entry of the session history.
type SessionRecord struct {
	SessionID string    `json:"sessionId"`
	UserName  string    `json:"userName"`
	Email     string    `json:"email"`
	StartTime time.Time `json:"startTime"`
	Duration  Text      `json:"duration"`
	Status    string    `json:"status"`
}
