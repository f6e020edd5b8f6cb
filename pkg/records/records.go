package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/segmentio/ksuid"
)

// Record is a persisted resolution: the canonical location plus the
// weather snapshot taken at resolution time.
type Record struct {
	ID         string  `json:"id"`
	Query      string  `json:"query"`
	Name       string  `json:"name"`
	Country    string  `json:"country"`
	Admin1     string  `json:"admin1"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ResolvedBy string  `json:"resolved_by"`

	TemperatureC *float64 `json:"temperature_c,omitempty"`
	WindSpeedKmh *float64 `json:"wind_speed_kmh,omitempty"`
	Condition    *string  `json:"condition,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type dbRecord struct {
	ID         string  `db:"id"`
	Query      string  `db:"query"`
	Name       string  `db:"name"`
	Country    string  `db:"country"`
	Admin1     string  `db:"admin1"`
	Latitude   float64 `db:"latitude"`
	Longitude  float64 `db:"longitude"`
	ResolvedBy string  `db:"resolved_by"`

	TemperatureC *float64 `db:"temperature_c"`
	WindSpeedKmh *float64 `db:"wind_speed_kmh"`
	Condition    *string  `db:"condition"`

	CreatedAt time.Time `db:"created_at"`
}

type Repository interface {
	CreateRecord(ctx context.Context, r *Record) error
	GetRecord(ctx context.Context, id string) (*Record, error)
	ListRecords(ctx context.Context) ([]Record, error)
}

type pgRepo struct {
	db *sqlx.DB
}

var _ Repository = (*pgRepo)(nil)

func NewPgRepository(db *sql.DB) *pgRepo {
	return &pgRepo{db: sqlx.NewDb(db, "postgres")}
}

func (r *pgRepo) CreateRecord(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = ksuid.New().String()
	}

	query := `
	INSERT INTO records (id, query, name, country, admin1, latitude, longitude, resolved_by, temperature_c, wind_speed_kmh, condition)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Query, rec.Name, rec.Country, rec.Admin1,
		rec.Latitude, rec.Longitude, rec.ResolvedBy,
		rec.TemperatureC, rec.WindSpeedKmh, rec.Condition)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	return nil
}

func (r *pgRepo) GetRecord(ctx context.Context, id string) (*Record, error) {
	var rec dbRecord

	err := r.db.GetContext(ctx, &rec, `SELECT * FROM records WHERE id = $1 LIMIT 1`, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select record: %w", err)
	} else if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	record := toRecord(rec)
	return &record, nil
}

func (r *pgRepo) ListRecords(ctx context.Context) ([]Record, error) {
	var rows []dbRecord

	err := r.db.SelectContext(ctx, &rows, `SELECT * FROM records ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRecord(row))
	}

	return out, nil
}

func toRecord(row dbRecord) Record {
	return Record{
		ID:           row.ID,
		Query:        row.Query,
		Name:         row.Name,
		Country:      row.Country,
		Admin1:       row.Admin1,
		Latitude:     row.Latitude,
		Longitude:    row.Longitude,
		ResolvedBy:   row.ResolvedBy,
		TemperatureC: row.TemperatureC,
		WindSpeedKmh: row.WindSpeedKmh,
		Condition:    row.Condition,
		CreatedAt:    row.CreatedAt,
	}
}
