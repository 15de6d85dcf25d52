package web

import (
	"net/http"

	"bookshop/internal/app"
)

func (h *Handler) createBill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Account string `json:"account"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateBill(r.Context(), req.Account)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, res.Bill)
}

func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	billID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	res, err := h.svc.GetBill(r.Context(), billID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Bill)
}

func (h *Handler) deleteBill(w http.ResponseWriter, r *http.Request) {
	billID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBill(r.Context(), billID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addBillItem(w http.ResponseWriter, r *http.Request) {
	billID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		ItemID   int64 `json:"item_id"`
		Quantity int   `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.AddBillItem(r.Context(), billID, req.ItemID, req.Quantity)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Bill)
}

func (h *Handler) updateBillItem(w http.ResponseWriter, r *http.Request) {
	billID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := idParam(w, r, "itemID")
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateBillItemQuantity(r.Context(), billID, itemID, req.Quantity)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Bill)
}

func (h *Handler) removeBillItem(w http.ResponseWriter, r *http.Request) {
	billID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := idParam(w, r, "itemID")
	if !ok {
		return
	}
	res, err := h.svc.RemoveBillItem(r.Context(), billID, itemID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Bill)
}

func (h *Handler) payBill(w http.ResponseWriter, r *http.Request) {
	billID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	res, err := h.svc.PayBill(r.Context(), billID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Bill)
}

func (h *Handler) cancelBill(w http.ResponseWriter, r *http.Request) {
	billID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	res, err := h.svc.CancelBill(r.Context(), billID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Bill)
}

func (h *Handler) searchBills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.SearchBillsRequest{
		CustomerName: q.Get("customer"),
		Status:       q.Get("status"),
		FromDate:     q.Get("from"),
		ToDate:       q.Get("to"),
		MinTotal:     q.Get("min_total"),
		MaxTotal:     q.Get("max_total"),
	}
	res, err := h.svc.SearchBills(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Bills)
}

func (h *Handler) todaysBills(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListTodaysBills(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Bills)
}
