// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/xcalibur215/mmhub/internal/listing/property"
	"github.com/xcalibur215/mmhub/internal/platform/database/schema"
	"github.com/xcalibur215/mmhub/internal/platform/postgres"
	"github.com/xcalibur215/mmhub/internal/users/auth"
)

// PostgresStats implements [StatsReader] with aggregate queries.
type PostgresStats struct {
	db postgres.Querier
}

// NewStats creates a new Postgres dashboard reader.
func NewStats(db postgres.Querier) *PostgresStats {
	return &PostgresStats{db: db}
}

/*
Dashboard aggregates account and listing statistics.

Description: An account counts as active when its status is active and the
isactive switch is on.

Returns:
  - *Dashboard: The overview
  - error: Database errors
*/
func (stats *PostgresStats) Dashboard(context context.Context) (*Dashboard, error) {
	dashboard := &Dashboard{}
	users, listings := schema.UserAccount, schema.ListingProperty

	userTotals := fmt.Sprintf(`
		SELECT COUNT(*), COUNT(*) FILTER (WHERE %s = '%s' AND %s)
		FROM %s`,
		users.Status, auth.StatusActive, users.IsActive, users.Table,
	)
	if err := stats.db.QueryRow(context, userTotals).Scan(&dashboard.UserStats.Total, &dashboard.UserStats.Active); err != nil {
		return nil, fmt.Errorf("postgres_stats_user_totals_failed: %w", err)
	}

	propertyTotals := fmt.Sprintf(`
		SELECT COUNT(*), COUNT(*) FILTER (WHERE %s = '%s')
		FROM %s`,
		listings.Status, property.StatusAvailable, listings.Table,
	)
	if err := stats.db.QueryRow(context, propertyTotals).Scan(&dashboard.PropertyStats.Total, &dashboard.PropertyStats.Available); err != nil {
		return nil, fmt.Errorf("postgres_stats_property_totals_failed: %w", err)
	}

	var err error
	if dashboard.UserStats.ByRole, err = stats.countBy(context, users.Table, users.Role); err != nil {
		return nil, err
	}
	if dashboard.PropertyStats.ByType, err = stats.countBy(context, listings.Table, listings.PropertyType); err != nil {
		return nil, err
	}

	if dashboard.RecentActivity.Users, err = stats.recentUsers(context); err != nil {
		return nil, err
	}
	if dashboard.RecentActivity.Properties, err = stats.recentProperties(context); err != nil {
		return nil, err
	}

	return dashboard, nil
}

func (stats *PostgresStats) countBy(context context.Context, table, column string) (map[string]int, error) {
	query := fmt.Sprintf("SELECT %s, COUNT(*) FROM %s GROUP BY %s", column, table, column)

	rows, err := stats.db.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_stats_count_by_%s_failed: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("postgres_stats_scan_failed: %w", err)
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

func (stats *PostgresStats) recentUsers(context context.Context) ([]RecentUser, error) {
	users := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s FROM %s
		ORDER BY %s DESC LIMIT $1`,
		users.ID, users.Username, users.Email, users.Role, users.CreatedAt, users.Table,
		users.CreatedAt,
	)

	rows, err := stats.db.Query(context, query, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("postgres_stats_recent_users_failed: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (RecentUser, error) {
		var user RecentUser
		err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.CreatedAt)
		return user, err
	})
}

func (stats *PostgresStats) recentProperties(context context.Context) ([]RecentProperty, error) {
	listings := schema.ListingProperty
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s FROM %s
		ORDER BY %s DESC LIMIT $1`,
		listings.ID, listings.Title, listings.City, listings.State, listings.RentPrice, listings.CreatedAt,
		listings.Table, listings.CreatedAt,
	)

	rows, err := stats.db.Query(context, query, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("postgres_stats_recent_properties_failed: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (RecentProperty, error) {
		var listing RecentProperty
		err := row.Scan(&listing.ID, &listing.Title, &listing.City, &listing.State, &listing.RentPrice, &listing.CreatedAt)
		return listing, err
	})
}
