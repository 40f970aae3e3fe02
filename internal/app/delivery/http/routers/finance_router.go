package routers

import (
	"mindhub-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

// attachFinanceRoutes hands everything under /finance to the finance service
// behind a stricter per-IP limiter.
func attachFinanceRoutes(router chi.Router, middlewares *middlewares.Middlewares, limiter *middlewares.RateLimiter, mountPath, target string) {
	router.Use(limiter.Limit)
	router.Handle("/*", middlewares.FinanceProxy(mountPath, target))
}
