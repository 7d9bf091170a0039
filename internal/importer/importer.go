// Package importer turns raw scraped records into stored contacts.
//
// Batches run sequentially: each record is normalized, checked against
// the tenant's existing contacts and inserted. A record that fails to
// insert is logged and skipped, but still advances the processed count
// so progress reporting stays aligned with batch position.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mnfst/outreach/internal/metrics"
	"github.com/mnfst/outreach/internal/models"
	"github.com/mnfst/outreach/internal/normalize"
	"github.com/mnfst/outreach/internal/repository"
)

// ContactStore is the slice of the contact repository the engine needs.
type ContactStore interface {
	Create(contact *models.Contact) error
	CountByTenantEmail(tenantID, email string) (int, error)
}

// Batch is one import request.
type Batch struct {
	TenantID string
	ListID   string
	ListName string
	Defaults normalize.Defaults
	Records  []normalize.Record
}

// Result summarizes a finished batch.
type Result struct {
	Total      int
	Processed  int
	Added      int
	Duplicates int
	Contacts   []*models.Contact
}

// ProgressFunc receives progress updates during a batch run. It is
// called after every fifth record and always after the last one.
type ProgressFunc func(processed, total int)

type Engine struct {
	contacts ContactStore
	logger   *slog.Logger
}

func NewEngine(contacts ContactStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{contacts: contacts, logger: logger}
}

// Run processes the batch record by record. Duplicate detection is an
// exact (tenant, email) match; records whose email normalizes to empty
// are always inserted. Returns an error only when the context is
// cancelled; per-record failures are absorbed into the counts.
func (e *Engine) Run(ctx context.Context, batch Batch, progress ProgressFunc) (*Result, error) {
	result := &Result{Total: len(batch.Records)}
	metrics.IncImportBatches()

	for _, record := range batch.Records {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := e.processRecord(batch, record, result); err != nil {
			e.logger.Error("failed to import record",
				"list", batch.ListName,
				"position", result.Processed+1,
				"error", err)
			metrics.IncImportFailures()
		}

		result.Processed++
		if progress != nil && (result.Processed%5 == 0 || result.Processed == result.Total) {
			progress(result.Processed, result.Total)
		}
	}

	return result, nil
}

func (e *Engine) processRecord(batch Batch, record normalize.Record, result *Result) error {
	contact := normalize.Contact(record, batch.Defaults)
	contact.TenantID = batch.TenantID
	contact.ListID = batch.ListID
	contact.ListName = batch.ListName

	if contact.Email != "" {
		count, err := e.contacts.CountByTenantEmail(batch.TenantID, contact.Email)
		if err != nil {
			return fmt.Errorf("duplicate check: %w", err)
		}
		if count > 0 {
			result.Duplicates++
			metrics.IncContactsDuplicate()
			return nil
		}
	}

	if err := e.contacts.Create(&contact); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}

	result.Added++
	result.Contacts = append(result.Contacts, &contact)
	metrics.IncContactsImported()
	return nil
}

var _ ContactStore = (*repository.ContactRepository)(nil)
