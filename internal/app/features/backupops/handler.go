// internal/app/features/backupops/handler.go
package backupops

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/clubworks/clubhub/internal/app/system/backup"
	"github.com/clubworks/clubhub/internal/app/system/httperr"
)

// runTimeout bounds an on-demand backup; the nightly job has its own.
const runTimeout = 30 * time.Minute

// Handler triggers on-demand database backups.
type Handler struct {
	Log    *zap.Logger
	Runner *backup.Runner
}

func NewHandler(runner *backup.Runner, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Runner: runner}
}

// HandleRunNow performs a backup immediately and reports the archive
// it produced. The run is synchronous; mongodump on this database is
// fast enough that the admin waits for the result.
func (h *Handler) HandleRunNow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), runTimeout)
	defer cancel()

	res, err := h.Runner.Run(ctx)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	httperr.JSON(w, http.StatusOK, res)
}
