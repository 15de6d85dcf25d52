package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookshop/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc app.ApplicationService
	log *zap.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, log *zap.Logger, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc, log: log}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Metrics)
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Bills ─────────────────────────────────────────────────────────────
		r.Get("/api/bills", h.searchBills)
		r.Post("/api/bills", h.createBill)
		r.Get("/api/bills/today", h.todaysBills)
		r.Get("/api/bills/statistics", h.statistics)
		r.Get("/api/bills/revenue", h.revenue)
		r.Get("/api/bills/{id}", h.getBill)
		r.Delete("/api/bills/{id}", h.deleteBill)
		r.Post("/api/bills/{id}/items", h.addBillItem)
		r.Put("/api/bills/{id}/items/{itemID}", h.updateBillItem)
		r.Delete("/api/bills/{id}/items/{itemID}", h.removeBillItem)
		r.Post("/api/bills/{id}/pay", h.payBill)
		r.Post("/api/bills/{id}/cancel", h.cancelBill)

		// ── Catalog ───────────────────────────────────────────────────────────
		r.Get("/api/items", h.listItems)
		r.Post("/api/items", h.createItem)
		r.Get("/api/items/{id}", h.getItem)
		r.Put("/api/items/{id}", h.updateItem)
		r.Delete("/api/items/{id}", h.deactivateItem)
		r.Post("/api/items/{id}/restock", h.restockItem)

		// ── Customers ─────────────────────────────────────────────────────────
		r.Get("/api/customers", h.listCustomers)
		r.Post("/api/customers", h.createCustomer)
		r.Get("/api/customers/{account}", h.getCustomer)
		r.Put("/api/customers/{account}", h.updateCustomer)
		r.Get("/api/customers/{account}/bills", h.customerBills)

		// ── Reports ───────────────────────────────────────────────────────────
		r.Get("/api/reports/top-customers", h.topCustomers)
		r.Get("/api/reports/top-items", h.topItems)
	})

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// idParam extracts a numeric URL parameter. Returns false after writing a
// 400 response when the value is not a valid id.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, "invalid "+name+" parameter", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an
// appropriate error response on failure. Returns HTTP 413 when the body
// exceeds the limit set by RequestBodyLimit; HTTP 400 for all other decode
// errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// limitQuery parses the optional ?limit query parameter.
func limitQuery(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return n
}
