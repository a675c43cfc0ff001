// internal/app/features/ledger/handler.go
package ledger

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	ledgerstore "github.com/clubworks/clubhub/internal/app/store/ledger"
	"github.com/clubworks/clubhub/internal/app/system/auth"
	"github.com/clubworks/clubhub/internal/app/system/httperr"
	"github.com/clubworks/clubhub/internal/app/system/sanitize"
	"github.com/clubworks/clubhub/internal/app/system/timeouts"
	"github.com/clubworks/clubhub/internal/domain/models"
)

// Handler manages ledger transactions. Amounts are integer cents on
// the wire and in storage; no floats anywhere in the money path.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Ledger *ledgerstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		Ledger: ledgerstore.New(db),
	}
}

type transactionRequest struct {
	AccountID       string `json:"account_id"`
	TransactionType string `json:"transaction_type"`
	TrxBookNo       string `json:"trx_book_no"`
	TrxReference    string `json:"trx_reference"`
	Amount          int64  `json:"amount"`
	Description     string `json:"description"`
	Date            string `json:"date"` // RFC 3339, optional on create
}

func (req *transactionRequest) validate() (time.Time, error) {
	if req.AccountID == "" {
		return time.Time{}, httperr.Validation("account_id is required")
	}
	if !models.IsValidTrxType(req.TransactionType) {
		return time.Time{}, httperr.Validation(`transaction_type must be "voucher" or "receipt"`)
	}
	if req.Amount <= 0 {
		return time.Time{}, httperr.Validation("amount must be a positive number of cents")
	}
	var date time.Time
	if req.Date != "" {
		t, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return time.Time{}, httperr.Validation("date must be RFC 3339")
		}
		date = t
	}
	return date, nil
}

// HandleCreate records a transaction. CreatedBy is taken from the
// caller's token, never from the body.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := httperr.Decode(w, r, &req); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}
	date, err := req.validate()
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	createdBy := ""
	if claims, ok := auth.CurrentClaims(r); ok {
		createdBy = claims.MemberID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Ledger.Create(ctx, models.LedgerTransaction{
		AccountID:       req.AccountID,
		TransactionType: req.TransactionType,
		TrxBookNo:       req.TrxBookNo,
		TrxReference:    sanitize.Text(req.TrxReference),
		Amount:          req.Amount,
		Description:     sanitize.Text(req.Description),
		Date:            date,
		CreatedBy:       createdBy,
	})
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	h.Log.Info("ledger transaction created",
		zap.String("transaction_id", created.TransactionID),
		zap.String("account_id", created.AccountID),
		zap.Int64("amount", created.Amount))
	httperr.JSON(w, http.StatusCreated, created)
}

// HandleList serves transactions with ?account=, ?type=, ?from=, ?to=,
// ?limit=, ?offset= filters.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := ledgerstore.ListOptions{
		AccountID:       q.Get("account"),
		TransactionType: q.Get("type"),
		Limit:           parseInt64(q.Get("limit")),
		Offset:          parseInt64(q.Get("offset")),
	}
	if opts.TransactionType != "" && !models.IsValidTrxType(opts.TransactionType) {
		httperr.Write(w, h.Log, httperr.Validation(`type must be "voucher" or "receipt"`))
		return
	}
	for name, dst := range map[string]*time.Time{"from": &opts.From, "to": &opts.To} {
		if v := q.Get(name); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				httperr.Write(w, h.Log, httperr.Validation(name+" must be RFC 3339"))
				return
			}
			*dst = t
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	found, err := h.Ledger.List(ctx, opts)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if found == nil {
		found = []models.LedgerTransaction{}
	}
	httperr.JSON(w, http.StatusOK, map[string]any{"transactions": found, "count": len(found)})
}

// HandleGet serves one transaction by its UUID.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Ledger.Get(ctx, chi.URLParam(r, "transactionID"))
	if err != nil {
		httperr.Write(w, h.Log, classifyStoreErr(err))
		return
	}
	httperr.JSON(w, http.StatusOK, t)
}

// HandleUpdate replaces the editable fields of a transaction.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")

	var req transactionRequest
	if err := httperr.Decode(w, r, &req); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}
	date, err := req.validate()
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}
	if date.IsZero() {
		httperr.Write(w, h.Log, httperr.Validation("date is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Ledger.UpdateByTransactionID(ctx, transactionID, ledgerstore.Update{
		AccountID:       req.AccountID,
		TransactionType: req.TransactionType,
		TrxBookNo:       req.TrxBookNo,
		TrxReference:    sanitize.Text(req.TrxReference),
		Amount:          req.Amount,
		Description:     sanitize.Text(req.Description),
		Date:            date,
	})
	if err != nil {
		httperr.Write(w, h.Log, classifyStoreErr(err))
		return
	}

	t, err := h.Ledger.Get(ctx, transactionID)
	if err != nil {
		httperr.Write(w, h.Log, classifyStoreErr(err))
		return
	}
	httperr.JSON(w, http.StatusOK, t)
}

// HandleDelete removes a transaction.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Ledger.Delete(ctx, transactionID); err != nil {
		httperr.Write(w, h.Log, classifyStoreErr(err))
		return
	}
	h.Log.Info("ledger transaction deleted", zap.String("transaction_id", transactionID))
	httperr.JSON(w, http.StatusOK, map[string]string{"transaction_id": transactionID, "status": "deleted"})
}

// HandleBalance serves the running balance for an account: receipts
// minus vouchers, in cents.
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	balance, err := h.Ledger.AccountBalance(ctx, accountID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	httperr.JSON(w, http.StatusOK, map[string]any{"account_id": accountID, "balance": balance})
}

func classifyStoreErr(err error) error {
	if errors.Is(err, ledgerstore.ErrNotFound) {
		return httperr.NotFound("ledger transaction not found")
	}
	return httperr.Internal(err)
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
