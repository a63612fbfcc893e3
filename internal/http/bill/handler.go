package bill

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/bill"
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
	r.Post("/{id}/pay", h.pay)
}

// billResponse carries the stored bill plus its status derived against the
// latest snapshot.
type billResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Amount      money.Amount   `json:"amount"`
	DueDate     time.Time      `json:"due_date"`
	Paid        bool           `json:"paid"`
	Recurring   bool           `json:"recurring"`
	Frequency   bill.Frequency `json:"frequency"`
	Category    string         `json:"category,omitempty"`
	Status      bill.Status    `json:"status"`
	PastDue     money.Amount   `json:"past_due"`
	DaysPastDue int            `json:"days_past_due"`
}

type payResponse struct {
	Paid billResponse  `json:"paid"`
	Next *billResponse `json:"next,omitempty"`
}

func (h *Handler) toResponse(b bill.Bill) billResponse {
	d := b.Derive(h.ledger.Snapshot().Dashboard.AsOf, h.ledger.Lookahead())

	return billResponse{
		ID:          b.ID,
		Name:        b.Name,
		Amount:      b.Amount,
		DueDate:     b.DueDate,
		Paid:        b.Paid,
		Recurring:   b.Recurring,
		Frequency:   b.Frequency,
		Category:    b.Category,
		Status:      d.Status,
		PastDue:     d.PastDue,
		DaysPastDue: d.DaysPastDue,
	}
}

type createBillRequest struct {
	Name      string         `json:"name"`
	Amount    money.Amount   `json:"amount"`
	DueDate   time.Time      `json:"due_date"`
	Recurring bool           `json:"recurring"`
	Frequency bill.Frequency `json:"frequency"`
	Category  string         `json:"category"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.ledger.CreateBill(r.Context(), bill.CreateParams{
		Name:      req.Name,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		Recurring: req.Recurring,
		Frequency: req.Frequency,
		Category:  req.Category,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, h.toResponse(b))
}

// list returns bills ordered by due date. ?status= narrows to one derived
// status.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	status := bill.Status(r.URL.Query().Get("status"))
	snap := h.ledger.Snapshot()

	byID := make(map[uuid.UUID]bill.Bill, len(snap.Bills))
	for _, b := range snap.Bills {
		byID[b.ID] = b
	}

	resp := make([]billResponse, 0, len(snap.Bills))

	for _, mb := range snap.Dashboard.MonthlyBills {
		if status != "" && mb.Status != status {
			continue
		}

		if b, ok := byID[mb.ID]; ok {
			resp = append(resp, h.toResponse(b))
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	for _, b := range h.ledger.Snapshot().Bills {
		if b.ID == id {
			respond.JSON(w, http.StatusOK, h.toResponse(b))
			return
		}
	}

	http.Error(w, "bill not found", http.StatusNotFound)
}

type updateBillRequest struct {
	Name      string         `json:"name"`
	Amount    money.Amount   `json:"amount"`
	DueDate   time.Time      `json:"due_date"`
	Paid      bool           `json:"paid"`
	Recurring bool           `json:"recurring"`
	Frequency bill.Frequency `json:"frequency"`
	Category  string         `json:"category"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.ledger.UpdateBill(r.Context(), id, bill.UpdateParams{
		Name:      req.Name,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		Paid:      req.Paid,
		Recurring: req.Recurring,
		Frequency: req.Frequency,
		Category:  req.Category,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.toResponse(b))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.ledger.DeleteBill(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	paid, next, err := h.ledger.MarkBillPaid(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := payResponse{Paid: h.toResponse(paid)}
	if next != nil {
		resp.Next = new(h.toResponse(*next))
	}

	respond.JSON(w, http.StatusOK, resp)
}
