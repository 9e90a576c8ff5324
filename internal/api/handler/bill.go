package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tabsplit/tabsplit/internal/api/response"
	"github.com/tabsplit/tabsplit/internal/model"
	"github.com/tabsplit/tabsplit/internal/services/bill"
)

// BillHandler handles finalize and bill archive endpoints
type BillHandler struct {
	bills *bill.Controller
}

// NewBillHandler creates a new bill handler
func NewBillHandler(bills *bill.Controller) *BillHandler {
	return &BillHandler{bills: bills}
}

// Finalize handles POST /api/v1/sessions/{id}/finalize
func (h *BillHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	b, err := h.bills.Finalize(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.BillFromModel(b))
}

// List handles GET /api/v1/bills?page=&page_size=
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 0)

	bills, info, err := h.bills.ListBills(r.Context(), page, pageSize)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.BillPageFromModel(bills, info))
}

// Get handles GET /api/v1/bills/{id}
func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.BillID(mux.Vars(r)["id"])

	b, err := h.bills.GetBill(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.BillFromModel(b))
}

// Delete handles DELETE /api/v1/bills/{id}
func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.BillID(mux.Vars(r)["id"])

	if err := h.bills.DeleteBill(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	response.Message(w, http.StatusOK, "Bill deleted")
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
