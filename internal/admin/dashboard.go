// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin serves the administrator console: platform statistics and the
role, status and listing-status switches.

Every route is gated to admins. Account mutations delegate to the account
service so the self-mutation and last-admin rules hold here as well.
*/
package admin

import (
	"context"
	"time"
)

// recentLimit is the number of newest users and properties on the dashboard.
const recentLimit = 5

// Dashboard is the admin overview payload.
type Dashboard struct {
	UserStats      UserStats      `json:"user_stats"`
	PropertyStats  PropertyStats  `json:"property_stats"`
	RecentActivity RecentActivity `json:"recent_activity"`
}

// UserStats summarizes the account table.
type UserStats struct {
	Total  int            `json:"total"`
	Active int            `json:"active"`
	ByRole map[string]int `json:"by_role"`
}

// PropertyStats summarizes the listing table.
type PropertyStats struct {
	Total     int            `json:"total"`
	Available int            `json:"available"`
	ByType    map[string]int `json:"by_type"`
}

// RecentActivity lists the newest rows of each table.
type RecentActivity struct {
	Users      []RecentUser     `json:"users"`
	Properties []RecentProperty `json:"properties"`
}

// RecentUser is a dashboard row for a newly registered account.
type RecentUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentProperty is a dashboard row for a newly published listing.
type RecentProperty struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	RentPrice float64   `json:"rent_price"`
	CreatedAt time.Time `json:"created_at"`
}

// StatsReader computes the dashboard.
type StatsReader interface {
	Dashboard(context context.Context) (*Dashboard, error)
}
