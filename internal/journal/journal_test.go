package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepworks/lep/internal/doc"
	"github.com/lepworks/lep/internal/engine"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func sampleReport() *engine.Report {
	return &engine.Report{
		TransactionID: "tx-1",
		Results: []engine.ChangeResult{
			{Index: 0, Op: "patch", Path: "a.txt", Outcome: "applied"},
			{Index: 1, Op: "delete", Path: "b.txt", Outcome: "skipped", Detail: "already absent"},
		},
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j1.Close())

	j2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j2.Close())
}

func TestRecordAndList(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, "tx-1", sampleReport(), 0))

	txs, err := j.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "tx-1", txs[0].ID)
	assert.Equal(t, doc.Protocol, txs[0].Protocol)
	assert.Equal(t, 0, txs[0].ExitCode)
	assert.False(t, txs[0].DryRun)

	changes, err := j.Changes(ctx, "tx-1")
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "patch", changes[0].Op)
	assert.Equal(t, "applied", changes[0].Outcome)
	assert.Equal(t, "already absent", changes[1].Detail)
}

func TestRecordTwiceKeepsOriginalRows(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, "tx-1", sampleReport(), 0))

	// A reapply records under the same id with different outcomes; the
	// first run's rows win.
	second := sampleReport()
	second.Results[0].Outcome = "skipped"
	require.NoError(t, j.Record(ctx, "tx-1", second, 0))

	txs, err := j.Transactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	changes, err := j.Changes(ctx, "tx-1")
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "applied", changes[0].Outcome)
}

func TestChangesUnknownTransaction(t *testing.T) {
	j := openTestJournal(t)

	changes, err := j.Changes(context.Background(), "no-such-tx")
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestTransactionID(t *testing.T) {
	assert.Equal(t, "explicit", TransactionID(&doc.Document{TransactionID: "explicit"}))

	generated := TransactionID(&doc.Document{})
	assert.NotEmpty(t, generated)
	assert.NotEqual(t, generated, TransactionID(&doc.Document{}), "fresh UUID per call")
}

func TestRecordDryRun(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	report := sampleReport()
	report.DryRun = true
	require.NoError(t, j.Record(ctx, "tx-dry", report, 0))

	txs, err := j.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].DryRun)
}
