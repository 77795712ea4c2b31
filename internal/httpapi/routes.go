package httpapi

import (
	"net/http"

	"indiadoors-be/internal/logger"
	"indiadoors-be/internal/middleware"
)

// NewRouter wires the public surface. invoiceDir is served read-only so the
// download links in invoices and admin emails resolve.
func NewRouter(h *Handler, invoiceDir string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)

	mux.Handle("POST /api/payment/checkout", middleware.RequireUser(http.HandlerFunc(h.Checkout)))
	mux.Handle("POST /api/payment/verify", middleware.RequireUser(http.HandlerFunc(h.VerifyPayment)))
	mux.Handle("GET /api/orders/{id}", middleware.RequireUser(http.HandlerFunc(h.GetOrder)))
	mux.Handle("POST /api/payment/orders/{orderId}/notify-admin", middleware.RequireUser(http.HandlerFunc(h.NotifyAdmin)))

	mux.Handle("GET /invoices/", http.StripPrefix("/invoices/", http.FileServer(http.Dir(invoiceDir))))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)
	return handler
}
