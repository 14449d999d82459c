package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"conferenceplanner/internal/adapters/sessionize"
	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/platform/database"
	"conferenceplanner/internal/repository/sqlstore"
	"conferenceplanner/internal/services"
	"conferenceplanner/internal/unitofwork"
)

var importCmd = &cobra.Command{
	Use:   "import-sessionize <sessionizeID>",
	Short: "Import a published Sessionize schedule",
	Long: `Fetch the "All" view of a Sessionize event and create its rooms as tracks,
its speakers and its sessions. The import is committed as one transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("base-url", sessionize.DefaultBaseURL, "Sessionize API base URL")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	baseURL, _ := cmd.Flags().GetString("base-url")

	db, err := database.Open(ctx, cfg.DBDriver, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	scope := unitofwork.New(db)
	defer scope.Close()
	ctx = unitofwork.WithScope(ctx, scope)

	summary, err := importerFactory(db, baseURL, logger)(ctx).ImportSessionize(ctx, args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// importerFactory returns a constructor for the import service running on the
// unit of work in ctx. Without one, statements autocommit one by one.
func importerFactory(db *sql.DB, baseURL string, logger *slog.Logger) func(ctx context.Context) domain.ImportService {
	fetcher := sessionize.NewHTTPFetcher(&http.Client{Timeout: 30 * time.Second}, baseURL)
	return func(ctx context.Context) domain.ImportService {
		scope, ok := unitofwork.FromContext(ctx)
		if !ok {
			scope = unitofwork.NewAutocommit(db)
		}
		return services.NewImportService(
			fetcher,
			sqlstore.NewTrackRepository(scope),
			sqlstore.NewSpeakerRepository(scope),
			sqlstore.NewSessionRepository(scope),
			scope,
			logger,
		)
	}
}
