package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"conferenceplanner/internal/adapters/email"
	"conferenceplanner/internal/adapters/sessionize"
	gqlapi "conferenceplanner/internal/delivery/graphql"
	httpapi "conferenceplanner/internal/delivery/http"
	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/events"
	"conferenceplanner/internal/platform/database"
	"conferenceplanner/internal/platform/metrics"
	"conferenceplanner/internal/platform/otel"
	"conferenceplanner/internal/services"
)

const serviceName = "conferenceplanner"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GraphQL server",
	Long: `Start the HTTP server: GraphQL at /graphql (subscriptions over the
graphql-ws websocket protocol), health at /healthz, Prometheus metrics at
/metrics and the REST documentation at /swagger/.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "apply pending migrations before serving")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, serviceName, cfg.OTelEndpoint, cfg.Environment)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("shutdown tracing", "error", err)
		}
	}()

	db, err := database.Open(ctx, cfg.DBDriver, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		applied, err := database.Migrate(ctx, db, cfg.DBDriver)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", "count", len(applied))
	}

	broker, err := newBroker()
	if err != nil {
		return err
	}
	defer broker.Close()

	emailService, err := newEmailService()
	if err != nil {
		return err
	}

	m := metrics.New()
	resolver := gqlapi.NewResolver(gqlapi.Config{
		DB:     db,
		Broker: broker,
		Email:  emailService,
		Loaders: gqlapi.LoaderConfig{
			Wait:     cfg.LoaderWait,
			MaxBatch: cfg.LoaderMaxBatch,
		},
		Metrics: m,
		Logger:  logger,
	})
	schema, err := gqlapi.NewSchema(resolver, cfg.MaxParallelism)
	if err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: httpapi.NewRouter(httpapi.RouterConfig{
			Logger:         logger,
			DB:             db,
			Schema:         schema,
			Resolver:       resolver,
			Metrics:        m,
			NewImporter:    importerFactory(db, sessionize.DefaultBaseURL, logger),
			AllowedOrigins: cfg.CORSAllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", server.Addr, "env", cfg.Environment, "db", cfg.DBDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// newBroker uses NATS when EVENTS_NATS_URL is set, otherwise the in-process broker.
func newBroker() (events.Broker, error) {
	if cfg.NATSUrl == "" {
		return events.NewMemoryBroker(logger), nil
	}
	broker, err := events.NewNATSBroker(cfg.NATSUrl, logger)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return broker, nil
}

func newEmailService() (domain.EmailService, error) {
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return nil, err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	return services.NewEmailService(mailer, renderer, logger), nil
}
