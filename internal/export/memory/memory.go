package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/DIEGO-rav10/UBELEZA/internal/core"
)

// Store is an in-memory archive sink for development and tests.
type Store struct {
	mu    sync.Mutex
	items []core.Archive
}

func New() *Store {
	return &Store{}
}

// Append stores the archive and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, a core.Archive) (string, error) {
	if core.SnapshotType(a.Data) == "" {
		return "", fmt.Errorf("archive %d has no type discriminator", a.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, a)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Items returns a copy of everything appended so far.
func (s *Store) Items() []core.Archive {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Archive(nil), s.items...)
}
