package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DIEGO-rav10/UBELEZA/internal/amqp"
	"github.com/DIEGO-rav10/UBELEZA/internal/core"
	"github.com/DIEGO-rav10/UBELEZA/internal/storage"
)

// ArchiveService serves the archive history. Deleting an archive never
// reconciles a live cycle's totals; archives are pure history.
type ArchiveService struct {
	storage *storage.SQLiteRepository
	events  EventPublisher
	cache   *StateCache
}

func NewArchiveService(storage *storage.SQLiteRepository, events EventPublisher, cache *StateCache) *ArchiveService {
	return &ArchiveService{
		storage: storage,
		events:  events,
		cache:   cache,
	}
}

func (s *ArchiveService) ListArchives(ctx context.Context) ([]core.Archive, error) {
	return s.storage.ListArchives(ctx)
}

// DeleteArchive removes one archive and returns the remaining list.
func (s *ArchiveService) DeleteArchive(ctx context.Context, id int64) ([]core.Archive, error) {
	if err := s.storage.DeleteArchive(ctx, id); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate()
	}

	remaining, err := s.storage.ListArchives(ctx)
	if err != nil {
		return nil, fmt.Errorf("list archives after delete: %w", err)
	}

	if s.events != nil {
		evt := amqp.NewEvent(amqp.EventArchiveDeleted, 0, id)
		if err := s.events.PublishEvent(ctx, evt); err != nil {
			slog.ErrorContext(ctx, "Failed to publish lifecycle event",
				"event", evt.Event,
				"archive_id", id,
				"error", err)
		}
	}

	return remaining, nil
}
