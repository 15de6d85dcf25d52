package web

import "net/http"

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetStatistics(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Statistics)
}

func (h *Handler) revenue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.svc.GetRevenue(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) topCustomers(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetTopCustomers(r.Context(), limitQuery(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Customers)
}

func (h *Handler) topItems(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetTopItems(r.Context(), limitQuery(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res.Items)
}
