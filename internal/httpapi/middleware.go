package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// MockAuthMiddleware derives the customer identity from the X-Customer-ID
// header (replace with real session validation). Requests without the
// header share a demo customer.
func MockAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customerID := r.Header.Get("X-Customer-ID")
		if customerID == "" {
			customerID = "customer-demo"
		}

		ctx := context.WithValue(r.Context(), "customer_id", customerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), "request_id", requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func customerIDFromContext(ctx context.Context) string {
	if customerID, ok := ctx.Value("customer_id").(string); ok {
		return customerID
	}
	return ""
}
