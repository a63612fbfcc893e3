package dashboard

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
)

type Handler struct {
	ledger *ledger.Ledger

	closing   chan struct{}
	closeOnce sync.Once
}

func NewHandler(l *ledger.Ledger) *Handler {
	return &Handler{ledger: l, closing: make(chan struct{})}
}

// Shutdown ends every open stream. Register it with
// http.Server.RegisterOnShutdown: Shutdown does not cancel request contexts,
// so streams would otherwise hold it until its deadline.
func (h *Handler) Shutdown() {
	h.closeOnce.Do(func() { close(h.closing) })
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Get("/stream", h.stream)
	r.Get("/schedule", h.schedule)
}

// get returns the latest dashboard, or one recomputed for ?as_of=YYYY-MM-DD.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	snap := h.ledger.Snapshot()

	s := r.URL.Query().Get("as_of")
	if s == "" {
		respond.JSON(w, http.StatusOK, toResponse(snap.Version, snap.Dashboard))
		return
	}

	loc := snap.Dashboard.AsOf.Location()

	asOf, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		http.Error(w, "invalid as_of, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	// End of the requested day, so the whole day counts as elapsed.
	asOf = asOf.AddDate(0, 0, 1).Add(-time.Nanosecond)

	respond.JSON(w, http.StatusOK, toResponse(0, h.ledger.Dashboard(asOf)))
}

// schedule groups the monthly bills of ?month=YYYY-MM (default: current
// month) by due day.
func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	d := h.ledger.Snapshot().Dashboard
	month := d.AsOf

	if s := r.URL.Query().Get("month"); s != "" {
		m, err := time.ParseInLocation("2006-01", s, d.AsOf.Location())
		if err != nil {
			http.Error(w, "invalid month, expected YYYY-MM", http.StatusBadRequest)
			return
		}

		month = m
	}

	respond.JSON(w, http.StatusOK, toSchedule(dashboard.Schedule(d.MonthlyBills, month)))
}

// stream sends every published snapshot's dashboard as a server-sent event.
// The first event is the current dashboard.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	snapshots, unsubscribe := h.ledger.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.closing:
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}

			body, err := json.Marshal(toResponse(snap.Version, snap.Dashboard))
			if err != nil {
				slog.Error("failed to encode dashboard event", "error", err)
				return
			}

			if _, err := fmt.Fprintf(w, "id: %d\nevent: dashboard\ndata: %s\n\n", snap.Version, body); err != nil {
				return
			}

			flusher.Flush()
		}
	}
}
