package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets"
)

// SyncStore is what the worker needs from the persistence layer: reading
// transactions and accounts plus tracking per-row sync state.
type SyncStore interface {
	GetAccount(ctx context.Context, id string) (core.Account, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	PendingSyncTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string) error
}

// SyncWorker exports transactions from the local store to a sheet
type SyncWorker struct {
	store     SyncStore
	exporter  sheets.TransactionExporter
	batchSize int
}

func NewSyncWorker(store SyncStore, exporter sheets.TransactionExporter, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:     store,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single transaction sync message from AMQP
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "transaction_id", msg.TransactionID)

	tx, err := w.store.GetTransaction(ctx, msg.TransactionID)
	if err != nil {
		return fmt.Errorf("get transaction from store: %w", err)
	}

	if err := w.exportTransaction(ctx, tx); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}

	return nil
}

// HandleDeleteMessage processes a single transaction delete message from AMQP.
// Exporters that cannot remove rows (an append-only sheet) are skipped.
func (w *SyncWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.TransactionDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "transaction_id", msg.TransactionID)

	deleter, ok := w.exporter.(interface {
		DeleteByTransactionID(ctx context.Context, id string) error
	})
	if !ok {
		slog.WarnContext(ctx, "Exporter cannot delete rows, skipping",
			"transaction_id", msg.TransactionID)
		return nil
	}

	if err := deleter.DeleteByTransactionID(ctx, msg.TransactionID); err != nil {
		return fmt.Errorf("delete exported transaction: %w", err)
	}

	slog.InfoContext(ctx, "Removed exported transaction", "transaction_id", msg.TransactionID)
	return nil
}

// ProcessPendingTransactions exports any transactions that haven't been
// synced yet. This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.store.PendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, tx := range pending {
		if err := w.exportTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction",
				"transaction_id", tx.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck exports pending transactions left over from missed AMQP
// messages or worker downtime. Runs with a larger batch than the periodic pass.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.store.PendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, tx := range pending {
		if err := w.exportTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"transaction_id", tx.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) exportTransaction(ctx context.Context, tx core.Transaction) error {
	account, err := w.store.GetAccount(ctx, tx.AccountID)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, tx.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"transaction_id", tx.ID, "error", markErr)
		}
		return fmt.Errorf("get account: %w", err)
	}

	ref, err := w.exporter.Append(ctx, account, tx)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, tx.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"transaction_id", tx.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	// The export itself worked; a failed status update is not fatal.
	if err := w.store.MarkSynced(ctx, tx.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced",
			"transaction_id", tx.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced transaction",
		"transaction_id", tx.ID,
		"sheets_range", ref)

	return nil
}
