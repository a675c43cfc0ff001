// internal/app/features/members/handler.go
package members

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	memberstore "github.com/clubworks/clubhub/internal/app/store/members"
)

// Handler is the feature-level handler for member administration.
// It holds the DB handle, stores, and logger provided by DBDeps / Startup.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	Members *memberstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		Members: memberstore.New(db),
	}
}
