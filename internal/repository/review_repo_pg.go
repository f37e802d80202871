package repository

import (
	"context"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository interface {
	Add(ctx context.Context, review *domain.Review) error
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Review, error)
}

type PGReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) ReviewRepository {
	return &PGReviewRepository{db: db}
}

func (r *PGReviewRepository) Add(ctx context.Context, review *domain.Review) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE flight_id=$1`, review.FlightID).Scan(&review.ID); err != nil {
		return err
	}
	if err := tx.QueryRow(ctx, `INSERT INTO reviews (flight_id, review_id, author, text) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		review.FlightID, review.ID, review.Author, review.Text).Scan(&review.CreatedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGReviewRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, `SELECT flight_id, review_id, author, text, created_at FROM reviews WHERE flight_id=$1 ORDER BY review_id`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.FlightID, &rv.ID, &rv.Author, &rv.Text, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

var _ ReviewRepository = (*PGReviewRepository)(nil)
