// internal/app/features/bookrefs/handler.go
package bookrefs

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	bookrefstore "github.com/clubworks/clubhub/internal/app/store/bookrefs"
	"github.com/clubworks/clubhub/internal/app/system/httperr"
	"github.com/clubworks/clubhub/internal/app/system/sanitize"
	"github.com/clubworks/clubhub/internal/app/system/timeouts"
	"github.com/clubworks/clubhub/internal/domain/models"
)

// Handler manages voucher and receipt book references.
type Handler struct {
	DB   *mongo.Database
	Log  *zap.Logger
	Refs *bookrefstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:   db,
		Log:  logger,
		Refs: bookrefstore.New(db),
	}
}

type createRequest struct {
	TransactionType string `json:"transaction_type"`
	TrxBookNo       string `json:"trx_book_no"`
	TrxReference    string `json:"trx_reference"`
}

// HandleCreate registers a book number for a transaction type.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httperr.Decode(w, r, &req); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}
	if !models.IsValidTrxType(req.TransactionType) {
		httperr.Write(w, h.Log, httperr.Validation(`transaction_type must be "voucher" or "receipt"`))
		return
	}
	if req.TrxBookNo == "" {
		httperr.Write(w, h.Log, httperr.Validation("trx_book_no is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Refs.Create(ctx, models.BookReference{
		TransactionType: req.TransactionType,
		TrxBookNo:       req.TrxBookNo,
		TrxReference:    sanitize.Text(req.TrxReference),
	})
	if err != nil {
		if errors.Is(err, bookrefstore.ErrDuplicate) {
			httperr.Write(w, h.Log, httperr.Conflict("book number already registered for this type"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	h.Log.Info("book reference created",
		zap.String("transaction_type", created.TransactionType),
		zap.String("trx_book_no", created.TrxBookNo))
	httperr.JSON(w, http.StatusCreated, created)
}

// HandleList serves all references, optionally filtered by ?type=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	trxType := r.URL.Query().Get("type")
	if trxType != "" && !models.IsValidTrxType(trxType) {
		httperr.Write(w, h.Log, httperr.Validation(`type must be "voucher" or "receipt"`))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	refs, err := h.Refs.List(ctx, trxType)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if refs == nil {
		refs = []models.BookReference{}
	}
	httperr.JSON(w, http.StatusOK, map[string]any{"book_references": refs, "count": len(refs)})
}

// HandleGet serves one reference by type and book number.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	trxType := chi.URLParam(r, "type")
	bookNo := chi.URLParam(r, "bookNo")
	if !models.IsValidTrxType(trxType) {
		httperr.Write(w, h.Log, httperr.Validation(`type must be "voucher" or "receipt"`))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ref, err := h.Refs.Get(ctx, trxType, bookNo)
	if err != nil {
		if errors.Is(err, bookrefstore.ErrNotFound) {
			httperr.Write(w, h.Log, httperr.NotFound("book reference not found"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	httperr.JSON(w, http.StatusOK, ref)
}

// HandleDelete removes a reference.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	trxType := chi.URLParam(r, "type")
	bookNo := chi.URLParam(r, "bookNo")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Refs.Delete(ctx, trxType, bookNo); err != nil {
		if errors.Is(err, bookrefstore.ErrNotFound) {
			httperr.Write(w, h.Log, httperr.NotFound("book reference not found"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	httperr.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
