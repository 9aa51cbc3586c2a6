package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/dmitrijs2005/gophledger/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// MessageResponse acknowledges operations that return no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

func (h *handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var in services.TransactionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	t, err := h.Transactions.Create(r.Context(), userFrom(r.Context()).ID, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func transactionFilter(r *http.Request) (models.TransactionFilter, error) {
	q := r.URL.Query()
	f := models.TransactionFilter{
		Type:     models.TransactionType(q.Get("transaction_type")),
		Category: q.Get("category"),
	}

	var err error
	if f.Skip, err = queryInt(q, "skip"); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(q, "limit"); err != nil {
		return f, err
	}
	if f.StartDate, err = queryTime(q, "start_date"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryTime(q, "end_date"); err != nil {
		return f, err
	}
	return f, nil
}

func (h *handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := transactionFilter(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	txs, err := h.Transactions.List(r.Context(), userFrom(r.Context()).ID, filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := h.Transactions.Get(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var in services.TransactionPatch
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	t, err := h.Transactions.Update(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.Transactions.Delete(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}

func (h *handler) periodSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Analytics.PeriodSummary(r.Context(), userFrom(r.Context()).ID, r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *handler) createBudget(w http.ResponseWriter, r *http.Request) {
	var in services.BudgetInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	b, err := h.Budgets.Create(r.Context(), userFrom(r.Context()).ID, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *handler) listBudgets(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := queryBool(r.URL.Query(), "active_only")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	bs, err := h.Budgets.List(r.Context(), userFrom(r.Context()).ID, activeOnly)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if bs == nil {
		bs = []models.Budget{}
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *handler) getBudget(w http.ResponseWriter, r *http.Request) {
	b, err := h.Budgets.Get(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) updateBudget(w http.ResponseWriter, r *http.Request) {
	var in services.BudgetPatch
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	b, err := h.Budgets.Update(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) deleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := h.Budgets.Delete(r.Context(), userFrom(r.Context()).ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Budget deleted successfully"})
}
