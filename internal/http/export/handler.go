package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
)

type Handler struct {
	svc    *export.Service
	ledger *ledger.Ledger
}

func NewHandler(svc *export.Service, l *ledger.Ledger) *Handler {
	return &Handler{svc: svc, ledger: l}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/download", h.download)
}

// month reads ?month=YYYY-MM, defaulting to the snapshot's current month.
func month(r *http.Request, snap ledger.Snapshot) (time.Time, error) {
	loc := snap.Dashboard.AsOf.Location()

	s := r.URL.Query().Get("month")
	if s == "" {
		return snap.Dashboard.AsOf, nil
	}

	return time.ParseInLocation("2006-01", s, loc)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	snap := h.ledger.Snapshot()

	m, err := month(r, snap)
	if err != nil {
		http.Error(w, "invalid month, expected YYYY-MM", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(h.svc.Summary(snap, m))); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	snap := h.ledger.Snapshot()

	m, err := month(r, snap)
	if err != nil {
		http.Error(w, "invalid month, expected YYYY-MM", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(m)))

	if err := h.svc.Statement(w, snap, m); err != nil {
		slog.Error("failed to write statement", "error", err)
	}
}
