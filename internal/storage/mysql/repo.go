package mysql

import (
	"context"
	"database/sql"

	"placefinder/internal/domain"
)

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) RecordSearch(ctx context.Context, rec domain.SearchRecord) error {
	_, err := r.db.ExecContext(ctx, insertSearchSQL,
		rec.Query,
		valF64(rec.Lat),
		valF64(rec.Lon),
		valF64(rec.RadiusM),
		rec.MaxPrice,
		rec.MinRating,
		rec.Results,
	)
	return err
}

func (r *Repo) RecentSearches(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, recentSearchesSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SearchRecord
	for rows.Next() {
		var (
			rec              domain.SearchRecord
			lat, lon, radius sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.Query, &lat, &lon, &radius,
			&rec.MaxPrice, &rec.MinRating, &rec.Results, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if lat.Valid {
			v := lat.Float64
			rec.Lat = &v
		}
		if lon.Valid {
			v := lon.Float64
			rec.Lon = &v
		}
		if radius.Valid {
			v := radius.Float64
			rec.RadiusM = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
