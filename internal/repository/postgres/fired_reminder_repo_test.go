package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"itineraryplanner/internal/reminder"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestFiredReminderRepository_Add(t *testing.T) {
	ctx := context.Background()
	key := reminder.Key{EventID: "ev-1", OccursAt: t0}

	tests := []struct {
		name         string
		mock         func(mock sqlmock.Sqlmock)
		wantInserted bool
		wantErr      bool
	}{
		{
			name: "newly inserted",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO fired_reminders`).
					WithArgs("ev-1", t0).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantInserted: true,
		},
		{
			name: "already fired",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO fired_reminders`).
					WithArgs("ev-1", t0).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantInserted: false,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO fired_reminders`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			set := NewFiredReminderRepository(db)
			inserted, err := set.Add(ctx, key)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantInserted, inserted)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFiredReminderRepository_Prune(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cutoff := t0.Add(-5 * time.Minute)
	mock.ExpectExec(`DELETE FROM fired_reminders WHERE occurs_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	set := NewFiredReminderRepository(db)
	require.NoError(t, set.Prune(ctx, cutoff))
	require.NoError(t, mock.ExpectationsWereMet())
}
