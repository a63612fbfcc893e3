package transaction

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Handler struct {
	ledger *ledger.Ledger
}

func NewHandler(l *ledger.Ledger) *Handler {
	return &Handler{ledger: l}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

type createTransactionRequest struct {
	AccountID   uuid.UUID            `json:"account_id"`
	Amount      money.Amount         `json:"amount"`
	Category    transaction.Category `json:"category"`
	Description string               `json:"description"`
	Date        time.Time            `json:"date"`
	Recurring   bool                 `json:"recurring"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.ledger.AddTransaction(r.Context(), transaction.CreateParams{
		AccountID:   req.AccountID,
		Date:        req.Date,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Recurring:   req.Recurring,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

// list returns transactions newest first, optionally filtered by
// account_id, category and an inclusive start_date/end_date range.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		accountID  uuid.UUID
		start, end time.Time
		err        error
	)

	if s := q.Get("account_id"); s != "" {
		if accountID, err = uuid.Parse(s); err != nil {
			http.Error(w, "invalid account_id", http.StatusBadRequest)
			return
		}
	}

	if s := q.Get("start_date"); s != "" {
		if start, err = time.Parse(time.DateOnly, s); err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return
		}
	}

	if s := q.Get("end_date"); s != "" {
		if end, err = time.Parse(time.DateOnly, s); err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}

		end = end.AddDate(0, 0, 1)
	}

	category := transaction.Category(q.Get("category"))

	var out []transaction.Transaction

	for _, tx := range h.ledger.Snapshot().Transactions {
		switch {
		case accountID != uuid.Nil && tx.AccountID != accountID:
			continue
		case category != "" && tx.Category != category:
			continue
		case !start.IsZero() && tx.Date.Before(start):
			continue
		case !end.IsZero() && !tx.Date.Before(end):
			continue
		}

		out = append(out, tx)
	}

	slices.SortStableFunc(out, func(a, b transaction.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	respond.JSON(w, http.StatusOK, toResponseList(out))
}

func (h *Handler) find(id uuid.UUID) (transaction.Transaction, bool) {
	for _, tx := range h.ledger.Snapshot().Transactions {
		if tx.ID == id {
			return tx, true
		}
	}

	return transaction.Transaction{}, false
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, ok := h.find(id)
	if !ok {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.ledger.DeleteTransaction(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	AccountID   *uuid.UUID            `json:"account_id,omitempty"`
	Amount      *money.Amount         `json:"amount,omitempty"`
	Category    *transaction.Category `json:"category,omitempty"`
	Description *string               `json:"description,omitempty"`
	Date        *time.Time            `json:"date,omitempty"`
	Recurring   *bool                 `json:"recurring,omitempty"`
}

// merge overlays the fields present in the request on p.
func (req updateTransactionRequest) merge(p transaction.CreateParams) transaction.CreateParams {
	if req.AccountID != nil {
		p.AccountID = *req.AccountID
	}

	if req.Amount != nil {
		p.Amount = *req.Amount
	}

	if req.Category != nil {
		p.Category = *req.Category
	}

	if req.Description != nil {
		p.Description = *req.Description
	}

	if req.Date != nil {
		p.Date = *req.Date
	}

	if req.Recurring != nil {
		p.Recurring = *req.Recurring
	}

	return p
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.ledger.EditTransaction(r.Context(), id, req.merge)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(updated))
}
