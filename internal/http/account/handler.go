package account

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/money"
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
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type accountResponse struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	Institution    string       `json:"institution,omitempty"`
	Number         string       `json:"number,omitempty"`
	Kind           account.Kind `json:"kind"`
	Balance        money.Amount `json:"balance"`
	OpeningBalance money.Amount `json:"opening_balance"`
	Active         bool         `json:"active"`
}

func toResponse(a account.Account) accountResponse {
	return accountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Institution:    a.Institution,
		Number:         a.Number,
		Kind:           a.Kind,
		Balance:        a.Balance,
		OpeningBalance: a.OpeningBalance,
		Active:         a.Active,
	}
}

type createAccountRequest struct {
	Name           string       `json:"name"`
	Institution    string       `json:"institution"`
	Number         string       `json:"number"`
	Kind           account.Kind `json:"kind"`
	OpeningBalance money.Amount `json:"opening_balance"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.ledger.CreateAccount(r.Context(), account.CreateParams{
		Name:           req.Name,
		Institution:    req.Institution,
		Number:         req.Number,
		Kind:           req.Kind,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(a))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts := h.ledger.Snapshot().Accounts
	onlyActive := r.URL.Query().Get("active") == "true"

	resp := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		if onlyActive && !a.Active {
			continue
		}

		resp = append(resp, toResponse(a))
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	for _, a := range h.ledger.Snapshot().Accounts {
		if a.ID == id {
			respond.JSON(w, http.StatusOK, toResponse(a))
			return
		}
	}

	http.Error(w, "account not found", http.StatusNotFound)
}

type updateAccountRequest struct {
	Name        string       `json:"name"`
	Institution string       `json:"institution"`
	Number      string       `json:"number"`
	Kind        account.Kind `json:"kind"`
	Active      bool         `json:"active"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.ledger.UpdateAccount(r.Context(), id, account.UpdateParams{
		Name:        req.Name,
		Institution: req.Institution,
		Number:      req.Number,
		Kind:        req.Kind,
		Active:      req.Active,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.ledger.DeleteAccount(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
