package matching

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type ruleDTO struct {
	Pattern     string               `json:"pattern"`
	Description string               `json:"description,omitempty"`
	Category    transaction.Category `json:"category"`
}

type suggestResponse struct {
	RawDescription string   `json:"raw_description"`
	Matched        bool     `json:"matched"`
	Rule           *ruleDTO `json:"rule,omitempty"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("raw_description")
	if rawDesc == "" {
		http.Error(w, "raw_description query parameter is required", http.StatusBadRequest)
		return
	}

	rule, ok, err := h.svc.Suggest(r.Context(), rawDesc)
	if err != nil {
		slog.Error("failed to suggest rule", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := suggestResponse{RawDescription: rawDesc, Matched: ok}
	if ok {
		resp.Rule = &ruleDTO{Pattern: rule.Pattern, Description: rule.Description, Category: rule.Category}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.Rules(r.Context())
	if err != nil {
		slog.Error("failed to list rules", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]ruleDTO, 0, len(rules))
	for _, rule := range rules {
		resp = append(resp, ruleDTO{Pattern: rule.Pattern, Description: rule.Description, Category: rule.Category})
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req ruleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.svc.Learn(r.Context(), matching.Rule{
		Pattern:     req.Pattern,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, matching.ErrInvalidRule) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to learn rule", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
}
