package sqlstore

import (
	"context"
	"database/sql"
	"testing"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/unitofwork"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestTrackRepository_Rename(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Track
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE tracks`).
					WithArgs(1, "Hall B").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Hall B"))
			},
			want: &domain.Track{ID: 1, Name: "Hall B"},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE tracks`).
					WithArgs(1, "Hall B").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE tracks`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewTrackRepository(unitofwork.Direct(db)).Rename(ctx, 1, "Hall B")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTrackRepository_GetByName(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name`).
		WithArgs("Main").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(4, "Main"))
	mock.ExpectQuery(`SELECT id, name`).
		WithArgs("Missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewTrackRepository(unitofwork.Direct(db))
	got, err := repo.GetByName(ctx, "Main")
	require.NoError(t, err)
	require.Equal(t, &domain.Track{ID: 4, Name: "Main"}, got)

	_, err = repo.GetByName(ctx, "Missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackRepository_ListByNames(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name FROM tracks WHERE name IN`).
		WithArgs("Main", "Side").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Main").AddRow(2, "Side"))

	repo := NewTrackRepository(unitofwork.Direct(db))
	got, err := repo.ListByNames(ctx, []string{"Main", "Side"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	empty, err := repo.ListByNames(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
	require.NoError(t, mock.ExpectationsWereMet())
}
