package importcsv

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/metrics"
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
	ledger    *ledger.Ledger
	metrics   *metrics.Metrics
}

func NewHandler(importSvc *importer.Service, l *ledger.Ledger, m *metrics.Metrics) *Handler {
	return &Handler{
		importSvc: importSvc,
		ledger:    l,
		metrics:   m,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type transactionResponse struct {
	ID          uuid.UUID            `json:"id"`
	AccountID   uuid.UUID            `json:"account_id"`
	Amount      money.Amount         `json:"amount"`
	Category    transaction.Category `json:"category"`
	Description string               `json:"description"`
	Date        time.Time            `json:"date"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

type createParamsDTO struct {
	AccountID   uuid.UUID            `json:"account_id"`
	Amount      money.Amount         `json:"amount"`
	Category    transaction.Category `json:"category"`
	Description string               `json:"description"`
	Date        time.Time            `json:"date"`
	Recurring   bool                 `json:"recurring,omitempty"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

// importCSV parses an uploaded statement into the chosen account. Rows that
// look like existing transactions abort the import with 409 and the full
// plan, which the client can edit and send to /confirm.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	bank, err := importer.ParseBank(r.FormValue("bank"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	accountID, err := uuid.Parse(r.FormValue("account_id"))
	if err != nil {
		http.Error(w, "account_id field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	plan, err := h.importSvc.Prepare(r.Context(), bank, file, accountID, h.ledger.Snapshot().Transactions)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(plan.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(plan.New)),
			Conflicts: make([]conflictDTO, 0, len(plan.Conflicts)),
		}
		for _, p := range plan.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range plan.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)

		return
	}

	h.add(w, r, plan.New)
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, transaction.CreateParams{
			AccountID:   p.AccountID,
			Date:        p.Date,
			Amount:      p.Amount,
			Description: p.Description,
			Category:    p.Category,
			Recurring:   p.Recurring,
		})
	}

	h.add(w, r, params)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request, params []transaction.CreateParams) {
	txs, err := h.ledger.AddTransactions(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.metrics.Imported(len(txs))

	respond.JSON(w, http.StatusCreated, toSuccessResponse(txs))
}

func toSuccessResponse(txs []transaction.Transaction) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toTxResponse(tx))
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}

func toTxResponse(tx transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		AccountID:   tx.AccountID,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date,
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		AccountID:   p.AccountID,
		Amount:      p.Amount,
		Category:    p.Category,
		Description: p.Description,
		Date:        p.Date,
		Recurring:   p.Recurring,
	}
}
