package mysql

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel_planner/internal/domain"
)

// Repo persists geocode lookups and provider misses. It implements
// domain.GeocodeStore and domain.MissLog.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// normalizeKey folds case and whitespace, then hashes so long addresses fit a fixed-width key.
func normalizeKey(s string) string {
	n := strings.ToLower(strings.Join(strings.Fields(s), " "))
	sum := sha1.Sum([]byte(n))
	return hex.EncodeToString(sum[:])
}

func (r *Repo) GetGeocode(ctx context.Context, address string) (domain.Coordinate, bool, error) {
	var c domain.Coordinate
	err := r.db.QueryRowContext(ctx, getGeocodeSQL, normalizeKey(address)).Scan(&c.Lat, &c.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get geocode: %w", err)
	}
	return c, true, nil
}

func (r *Repo) PutGeocode(ctx context.Context, address string, c domain.Coordinate) error {
	_, err := r.db.ExecContext(ctx, upsertGeocodeSQL, normalizeKey(address), strings.TrimSpace(address), c.Lat, c.Lon)
	if err != nil {
		return fmt.Errorf("put geocode: %w", err)
	}
	return nil
}

func (r *Repo) LogMiss(ctx context.Context, query string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, normalizeKey(query), query, status, reason)
	return err
}

type Miss struct {
	Query  string
	Status int
	Reason string
	Hits   int
	SeenAt time.Time
}

func (r *Repo) RecentMisses(ctx context.Context, limit int) ([]Miss, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, recentMissesSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Miss
	for rows.Next() {
		var m Miss
		if err := rows.Scan(&m.Query, &m.Status, &m.Reason, &m.Hits, &m.SeenAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }
