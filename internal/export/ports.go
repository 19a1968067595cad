package export

import (
	"context"

	"github.com/DIEGO-rav10/UBELEZA/internal/core"
)

// ArchiveAppender is the outbound port for archive export backends.
type ArchiveAppender interface {
	// Append writes one archived summary and returns a backend row reference.
	Append(ctx context.Context, a core.Archive) (rowRef string, err error)
}
