package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/graph-gophers/graphql-transport-ws/graphqlws"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "conferenceplanner/docs"
	"conferenceplanner/internal/delivery/http/controllers"
	"conferenceplanner/internal/delivery/http/middleware"
	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/platform/metrics"
)

// LoaderAttacher attaches the per-request resolver bundle to a context. release
// is called once the operation is answered. *graphql.Resolver of the delivery
// layer implements it.
type LoaderAttacher interface {
	WithLoaders(ctx context.Context) (_ context.Context, release func())
}

// RouterConfig holds everything NewRouter wires.
type RouterConfig struct {
	Logger   *slog.Logger
	DB       *sql.DB
	Schema   *graphql.Schema
	Resolver LoaderAttacher
	// Metrics is optional; without it /metrics is not served.
	Metrics *metrics.Metrics
	// NewImporter builds the Sessionize import on the request's unit of work.
	// Without it the import route is not served.
	NewImporter    func(ctx context.Context) domain.ImportService
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes, wrapped in
// CORS, request logging and, when configured, request metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// GraphQL: every operation over HTTP, every operation including
	// subscriptions over the websocket.
	ws := &operationService{db: cfg.DB, schema: cfg.Schema, resolver: cfg.Resolver, logger: cfg.Logger}
	httpGQL := middleware.UnitOfWork(cfg.DB, cfg.Logger, withLoaders(cfg.Resolver, &relay.Handler{Schema: cfg.Schema}))
	mux.Handle("/graphql", graphqlws.NewHandlerFunc(ws, httpGQL))

	health := controllers.NewHealthController(cfg.Logger, cfg.DB)
	mux.HandleFunc("GET /healthz", health.Health)

	if cfg.NewImporter != nil {
		importer := controllers.NewImportController(cfg.Logger, cfg.NewImporter)
		mux.Handle("POST /import/sessionize/{sessionizeID}", middleware.UnitOfWork(cfg.DB, cfg.Logger, http.HandlerFunc(importer.ImportSessionize)))
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
		handler = middleware.Metrics(cfg.Metrics, mux)
	}
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	return middleware.CORS(cfg.AllowedOrigins, handler)
}

func withLoaders(res LoaderAttacher, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, release := res.WithLoaders(r.Context())
		defer release()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
