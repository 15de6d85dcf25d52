package web

import (
	"net/http"

	"bookshop/internal/app"
)

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListItems(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Items)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Author       string `json:"author"`
		Category     string `json:"category"`
		UnitPrice    string `json:"unit_price"`
		InitialStock int    `json:"initial_stock"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateItem(r.Context(), app.CreateItemRequest{
		Name:         req.Name,
		Author:       req.Author,
		Category:     req.Category,
		UnitPrice:    req.UnitPrice,
		InitialStock: req.InitialStock,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, res.Item)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	res, err := h.svc.GetItem(r.Context(), itemID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Name      string `json:"name"`
		Author    string `json:"author"`
		Category  string `json:"category"`
		UnitPrice string `json:"unit_price"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateItem(r.Context(), itemID, app.UpdateItemRequest{
		Name:      req.Name,
		Author:    req.Author,
		Category:  req.Category,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Item)
}

func (h *Handler) deactivateItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeactivateItem(r.Context(), itemID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) restockItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.RestockItem(r.Context(), itemID, req.Quantity)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Item)
}
