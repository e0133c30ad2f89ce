package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"carprice/internal/errors"
)

const predictionLogSchema = `
CREATE TABLE IF NOT EXISTS prediction_log (
	id UUID PRIMARY KEY,
	features JSONB NOT NULL,
	price DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PredictionLogRepository records served predictions for later auditing.
// It is entirely optional; the API runs without it when no database is
// configured.
type PredictionLogRepository struct {
	db *sqlx.DB
}

// PredictionRecord is one audited prediction.
type PredictionRecord struct {
	ID        string          `db:"id"`
	Features  json.RawMessage `db:"features"`
	Price     float64         `db:"price"`
	CreatedAt time.Time       `db:"created_at"`
}

// NewPredictionLogRepository connects and ensures the log table exists.
func NewPredictionLogRepository(databaseURL string) (*PredictionLogRepository, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to prediction log database")
	}
	if _, err := db.Exec(predictionLogSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating prediction_log table")
	}
	return &PredictionLogRepository{db: db}, nil
}

// Insert stores one prediction with the request features it was made from.
func (r *PredictionLogRepository) Insert(ctx context.Context, features map[string]interface{}, price float64) error {
	payload, err := json.Marshal(features)
	if err != nil {
		return errors.Wrap(err, "encoding prediction features")
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO prediction_log (id, features, price) VALUES ($1, $2, $3)`,
		uuid.NewString(), payload, price)
	if err != nil {
		return errors.Wrap(err, "inserting prediction log record")
	}
	return nil
}

// Recent returns the latest n audited predictions.
func (r *PredictionLogRepository) Recent(ctx context.Context, n int) ([]PredictionRecord, error) {
	var records []PredictionRecord
	err := r.db.SelectContext(ctx, &records,
		`SELECT id, features, price, created_at FROM prediction_log ORDER BY created_at DESC LIMIT $1`, n)
	if err != nil {
		return nil, errors.Wrap(err, "listing prediction log records")
	}
	return records, nil
}

// Close releases the database connection.
func (r *PredictionLogRepository) Close() error {
	return r.db.Close()
}
