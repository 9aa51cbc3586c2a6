package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/server/transform"
	"github.com/shopspring/decimal"
)

// TransformResponse echoes the input next to the transformation result.
type TransformResponse struct {
	TransformationType string          `json:"transformation_type"`
	InputData          json.RawMessage `json:"input_data"`
	Result             any             `json:"result"`
	Timestamp          time.Time       `json:"timestamp"`
}

func (h *handler) convertCurrency(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		writeError(w, r, h.logger, badRequest("amount must be a number"))
		return
	}
	from, to := strings.TrimSpace(q.Get("from_currency")), strings.TrimSpace(q.Get("to_currency"))
	if from == "" || to == "" {
		writeError(w, r, h.logger, badRequest("from_currency and to_currency are required"))
		return
	}

	c, err := h.Analytics.ConvertCurrency(r.Context(), amount, from, to)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) categoryBreakdown(w http.ResponseWriter, r *http.Request) {
	b, err := h.Analytics.CategoryBreakdown(r.Context(), userFrom(r.Context()).ID, r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) budgetProgress(w http.ResponseWriter, r *http.Request) {
	report, err := h.Analytics.BudgetProgress(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *handler) transformData(w http.ResponseWriter, r *http.Request) {
	op := r.URL.Query().Get("transformation_type")
	if op == "" {
		writeError(w, r, h.logger, badRequest("transformation_type is required"))
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var batch transform.Batch
	if err := json.Unmarshal(body, &batch); err != nil {
		writeError(w, r, h.logger, badRequest("invalid request body: %v", err))
		return
	}

	result, err := h.Analytics.Transform(r.Context(), op, batch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, TransformResponse{
		TransformationType: strings.ToLower(op),
		InputData:          json.RawMessage(body),
		Result:             result,
		Timestamp:          time.Now().UTC(),
	})
}

func (h *handler) exportTransactions(w http.ResponseWriter, r *http.Request) {
	exp, err := h.Exports.ExportTransactions(r.Context(), userFrom(r.Context()).ID, r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, exp)
}
