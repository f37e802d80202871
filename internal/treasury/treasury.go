// Package treasury is the hosting environment's money-movement primitive.
// Transfers land in an append-only journal; the settlement engine only
// decides who gets paid how much.
package treasury

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightledger/internal/service/settlement"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGTreasury struct {
	db      *pgxpool.Pool
	account string
}

// NewPGTreasury records transfers debited from the named escrow account.
func NewPGTreasury(db *pgxpool.Pool, account string) *PGTreasury {
	return &PGTreasury{db: db, account: account}
}

// Transfer journals a payment. When tx is non-nil the insert runs on that
// transaction, so the journal entry commits and rolls back together with the
// booking transition that triggered it.
func (t *PGTreasury) Transfer(ctx context.Context, tx pgx.Tx, to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("transfer amount must be non-negative, got %d", amount)
	}
	exec := t.db.Exec
	if tx != nil {
		exec = tx.Exec
	}
	ref := uuid.NewString()
	_, err := exec(ctx, `INSERT INTO transfers (reference, source_account, recipient, amount) VALUES ($1, $2, $3, $4)`,
		ref, t.account, to, amount)
	if err != nil {
		return fmt.Errorf("record transfer %s: %w", ref, err)
	}
	return nil
}

var _ settlement.Treasury = (*PGTreasury)(nil)
