package domain

import "time"

// Link represents a shortened URL
type Link struct {
	Code          string     `json:"code" db:"code"`
	TargetURL     string     `json:"targetUrl" db:"target_url"`
	TotalClicks   int64      `json:"totalClicks" db:"total_clicks"`
	LastClickedAt *time.Time `json:"lastClickedAt" db:"last_clicked_at"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Only populated by Dump
}
