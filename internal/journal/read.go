package journal

import (
	"context"
	"fmt"
)

// TransactionRow is one journaled transaction.
type TransactionRow struct {
	ID        string `json:"id"`
	Protocol  string `json:"protocol"`
	DryRun    bool   `json:"dry_run"`
	ExitCode  int    `json:"exit_code"`
	StartedAt string `json:"started_at"`
}

// ChangeRow is one journaled per-change outcome.
type ChangeRow struct {
	TxID    string `json:"tx_id"`
	Index   int    `json:"index"`
	Op      string `json:"op"`
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
}

// Transactions lists journaled transactions, newest first.
func (j *Journal) Transactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, protocol, dry_run, exit_code, started_at
		FROM transactions
		ORDER BY started_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		var t TransactionRow
		var dryRun int
		if err := rows.Scan(&t.ID, &t.Protocol, &dryRun, &t.ExitCode, &t.StartedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.DryRun = dryRun != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

// Changes lists the per-change outcomes of one transaction in apply order.
func (j *Journal) Changes(ctx context.Context, txID string) ([]ChangeRow, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT tx_id, idx, op, path, outcome, detail
		FROM changes
		WHERE tx_id = ?
		ORDER BY idx ASC
	`, txID)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()

	var out []ChangeRow
	for rows.Next() {
		var c ChangeRow
		if err := rows.Scan(&c.TxID, &c.Index, &c.Op, &c.Path, &c.Outcome, &c.Detail); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
