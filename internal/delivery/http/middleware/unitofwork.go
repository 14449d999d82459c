package middleware

import (
	"database/sql"
	"log/slog"
	"net/http"

	"conferenceplanner/internal/unitofwork"
)

// UnitOfWork opens one transactional scope per request and stores it in the
// request context. Whatever the handler did not commit is rolled back when it returns.
func UnitOfWork(db *sql.DB, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := unitofwork.New(db)
		defer func() {
			if err := scope.Close(); err != nil {
				logger.ErrorContext(r.Context(), "close unit of work", "error", err)
			}
		}()
		next.ServeHTTP(w, r.WithContext(unitofwork.WithScope(r.Context(), scope)))
	})
}
