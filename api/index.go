package handler

import (
	"net/http"
	"rental/config"
	"rental/di"
	"rental/shared/logger"
	"sync"

	transport "rental/transport/http"
)

var (
	service     *transport.HTTP
	serviceOnce sync.Once
)

// Handler is the serverless entrypoint. The dependency graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	serviceOnce.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.Configure(cfg)

		service = di.InitializeService()
	})

	service.ServeHTTP(w, r)
}
