package web

import (
	"net/http"

	"bookshop/internal/app"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Customers)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Account string `json:"account"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateCustomer(r.Context(), app.CreateCustomerRequest{
		Account: req.Account,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, res.Customer)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetCustomer(r.Context(), chi.URLParam(r, "account"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Customer)
}

// updateCustomer resolves the account to a customer before updating, so the
// route can address customers by account like the read endpoints do.
func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	existing, err := h.svc.GetCustomer(r.Context(), chi.URLParam(r, "account"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateCustomer(r.Context(), existing.Customer.ID, app.UpdateCustomerRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Customer)
}

func (h *Handler) customerBills(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetCustomerBills(r.Context(), chi.URLParam(r, "account"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res)
}
