package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lepworks/lep/internal/doc"
	"github.com/lepworks/lep/internal/engine"
)

// TransactionID returns the id to journal a document under: the document's
// own transaction_id when present, else a fresh UUID.
func TransactionID(d *doc.Document) string {
	if d.TransactionID != "" {
		return d.TransactionID
	}
	return uuid.NewString()
}

// Record writes one transaction and its per-change outcomes.
//
// Uses ON CONFLICT DO NOTHING for idempotency - re-applying a document
// with the same transaction id leaves the original rows in place.
func (j *Journal) Record(ctx context.Context, txID string, report *engine.Report, exitCode int) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	defer tx.Rollback()

	dryRun := 0
	if report.DryRun {
		dryRun = 1
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, protocol, dry_run, exit_code, started_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, txID, doc.Protocol, dryRun, exitCode, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}

	for _, res := range report.Results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO changes (tx_id, idx, op, path, outcome, detail)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(tx_id, idx) DO NOTHING
		`, txID, res.Index, res.Op, res.Path, res.Outcome, res.Detail)
		if err != nil {
			return fmt.Errorf("record change %d: %w", res.Index, err)
		}
	}

	return tx.Commit()
}
