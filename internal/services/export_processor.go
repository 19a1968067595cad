package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DIEGO-rav10/UBELEZA/internal/amqp"
	"github.com/DIEGO-rav10/UBELEZA/internal/core"
	"github.com/DIEGO-rav10/UBELEZA/internal/export"
)

// ArchiveLoader is the slice of storage the export processor needs.
type ArchiveLoader interface {
	GetArchive(ctx context.Context, id int64) (*core.Archive, error)
}

// ExportProcessor turns archive lifecycle events into export rows. It
// runs inside the worker binary, fed by the AMQP consumer.
type ExportProcessor struct {
	storage  ArchiveLoader
	appender export.ArchiveAppender
}

func NewExportProcessor(storage ArchiveLoader, appender export.ArchiveAppender) *ExportProcessor {
	return &ExportProcessor{
		storage:  storage,
		appender: appender,
	}
}

// Handle processes one lifecycle event. A returned error requeues the
// delivery; events that can never succeed are dropped with a log line.
func (p *ExportProcessor) Handle(ctx context.Context, evt *amqp.Event) error {
	switch evt.Event {
	case amqp.EventCycleFinalized, amqp.EventPeriodArchived:
		return p.exportArchive(ctx, evt)
	case amqp.EventCycleStarted, amqp.EventArchiveDeleted, amqp.EventDatabaseReset:
		slog.DebugContext(ctx, "No export action for event", "event", evt.Event)
		return nil
	default:
		slog.WarnContext(ctx, "Dropping unknown event", "event", evt.Event)
		return nil
	}
}

func (p *ExportProcessor) exportArchive(ctx context.Context, evt *amqp.Event) error {
	if p.appender == nil {
		slog.WarnContext(ctx, "No export backend configured, skipping archive",
			"event", evt.Event,
			"archive_id", evt.ArchiveID)
		return nil
	}

	archive, err := p.storage.GetArchive(ctx, evt.ArchiveID)
	if errors.Is(err, core.ErrArchiveNotFound) {
		// Deleted between publish and consume; requeueing cannot help.
		slog.WarnContext(ctx, "Archive gone before export, dropping event",
			"archive_id", evt.ArchiveID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load archive %d: %w", evt.ArchiveID, err)
	}

	ref, err := p.appender.Append(ctx, *archive)
	if err != nil {
		return fmt.Errorf("append archive %d: %w", evt.ArchiveID, err)
	}

	slog.InfoContext(ctx, "Exported archive",
		"event", evt.Event,
		"archive_id", evt.ArchiveID,
		"row_ref", ref)
	return nil
}
