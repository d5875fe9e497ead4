package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/metrics"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	APIKeys []string
	Logger  *zap.Logger
}

// NewRouter mounts the server routes behind the standard middleware stack.
// POST /search-mdb and POST /mongo-only are kept as aliases of /match and /search.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", HeaderLLMModel, HeaderLLMTokens, HeaderLLMFallback},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware("/metrics", "/health"))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})

	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Post("/match", s.Match)
	r.Post("/search-mdb", s.Match)
	r.Post("/search", s.Search)
	r.Post("/mongo-only", s.Search)

	return r
}
