package graphql

import (
	"context"
	"database/sql"
	"log/slog"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/events"
	"conferenceplanner/internal/platform/metrics"
	"conferenceplanner/internal/repository/sqlstore"
	"conferenceplanner/internal/services"
	"conferenceplanner/internal/unitofwork"
)

// Config holds the collaborators of the root resolver.
type Config struct {
	DB     *sql.DB
	Broker events.Broker
	// Email sends the welcome message on registration; nil disables it.
	Email   domain.EmailService
	Loaders LoaderConfig
	// Metrics is optional.
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Resolver is the root resolver. It holds no request state: everything a request
// shares lives in the bundle attached by WithLoaders.
type Resolver struct {
	db        *sql.DB
	broker    events.Broker
	publisher domain.EventPublisher
	email     domain.EmailService
	loaderCfg LoaderConfig
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewResolver returns the root resolver for cfg.
func NewResolver(cfg Config) *Resolver {
	r := &Resolver{
		db:        cfg.DB,
		broker:    cfg.Broker,
		publisher: cfg.Broker,
		email:     cfg.Email,
		loaderCfg: cfg.Loaders,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}
	if cfg.Metrics != nil {
		r.publisher = events.Counted(cfg.Broker, cfg.Metrics)
		if r.loaderCfg.Observer == nil {
			r.loaderCfg.Observer = cfg.Metrics
		}
	}
	return r
}

// request is what every resolver of one GraphQL request shares: the unit of work,
// repositories running through it, the loaders and the mutation services.
type request struct {
	scope   *unitofwork.Scope
	loaders *Loaders

	speakerRepo  domain.SpeakerRepository
	sessionRepo  domain.SessionRepository
	trackRepo    domain.TrackRepository
	attendeeRepo domain.AttendeeRepository

	speakers  domain.SpeakerService
	sessions  domain.SessionService
	tracks    domain.TrackService
	attendees domain.AttendeeService
}

func (r *Resolver) newRequest(scope *unitofwork.Scope) *request {
	speakerRepo := sqlstore.NewSpeakerRepository(scope)
	sessionRepo := sqlstore.NewSessionRepository(scope)
	trackRepo := sqlstore.NewTrackRepository(scope)
	attendeeRepo := sqlstore.NewAttendeeRepository(scope)

	return &request{
		scope:        scope,
		loaders:      NewLoaders(speakerRepo, sessionRepo, trackRepo, attendeeRepo, r.loaderCfg),
		speakerRepo:  speakerRepo,
		sessionRepo:  sessionRepo,
		trackRepo:    trackRepo,
		attendeeRepo: attendeeRepo,
		speakers:     services.NewSpeakerService(speakerRepo, scope),
		sessions:     services.NewSessionService(sessionRepo, speakerRepo, trackRepo, scope, r.publisher, r.logger),
		tracks:       services.NewTrackService(trackRepo, scope),
		attendees:    services.NewAttendeeService(attendeeRepo, sessionRepo, scope, r.publisher, r.email, r.logger),
	}
}

type requestKey struct{}

// WithLoaders attaches a request bundle built on the unit of work in ctx. Without
// one, the bundle runs in autocommit mode. release closes the bundle's loaders and
// must be called once the operation is answered.
func (r *Resolver) WithLoaders(ctx context.Context) (_ context.Context, release func()) {
	scope, ok := unitofwork.FromContext(ctx)
	if !ok {
		scope = unitofwork.NewAutocommit(r.db)
	}
	req := r.newRequest(scope)
	return context.WithValue(ctx, requestKey{}, req), req.loaders.Close
}

// forContext returns the bundle attached by WithLoaders. Every transport attaches
// one before executing, so a missing bundle is a wiring error.
func (r *Resolver) forContext(ctx context.Context) *request {
	req, ok := ctx.Value(requestKey{}).(*request)
	if !ok {
		panic("graphql: operation executed without WithLoaders")
	}
	return req
}

func (r *Resolver) countUserErrors(errs []domain.UserError) {
	if r.metrics == nil {
		return
	}
	for _, e := range errs {
		r.metrics.UserError(e.Code)
	}
}
