package ioseq_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/internal/iodb"
	"github.com/gnames/gndocs/internal/ioschema"
	"github.com/gnames/gndocs/internal/ioseq"
	"github.com/gnames/gndocs/internal/iotesting"
	"github.com/gnames/gndocs/pkg/errcode"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeDB(maxID int64, setErr error) *iotesting.Recorder {
	return &iotesting.Recorder{
		OnQueryRow: func(sql string, args []any) pgx.Row {
			if strings.Contains(sql, "MAX(id)") {
				return iotesting.Row{Values: []any{maxID}}
			}
			if setErr != nil {
				return iotesting.Row{Err: setErr}
			}
			return iotesting.Row{Values: []any{int64(1)}}
		},
	}
}

func TestRepair(t *testing.T) {
	tests := []struct {
		name     string
		maxID    int64
		wantNext int64
		wantSQL  string
		wantArgs []any
	}{
		{"non-empty table", 12, 13, ", $1, true)", []any{int64(12)}},
		{"empty table", 0, 1, ", 1, false)", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fakeDB(tt.maxID, nil)
			next, err := ioseq.NewRepairer().Repair(context.Background(), rec)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNext, next)

			require.Len(t, rec.Statements, 2)
			assert.Contains(t, rec.Statements[1].SQL, "pg_get_serial_sequence('documents', 'id')")
			assert.Contains(t, rec.Statements[1].SQL, tt.wantSQL)
			assert.Equal(t, tt.wantArgs, rec.Statements[1].Args)
		})
	}
}

func TestRepair_Errors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("max id", func(t *testing.T) {
		rec := &iotesting.Recorder{
			OnQueryRow: func(string, []any) pgx.Row { return iotesting.Row{Err: boom} },
		}
		_, err := ioseq.NewRepairer().Repair(context.Background(), rec)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.SequenceMaxIDError, gnErr.Code)
		assert.ErrorIs(t, gnErr.Err, boom)
	})

	t.Run("setval", func(t *testing.T) {
		_, err := ioseq.NewRepairer().Repair(context.Background(), fakeDB(5, boom))
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.SequenceSetValError, gnErr.Code)
		assert.Equal(t, []any{int64(5)}, gnErr.Vars)
		assert.ErrorIs(t, gnErr.Err, boom)
	})

	t.Run("nil querier", func(t *testing.T) {
		_, err := ioseq.NewRepairer().Repair(context.Background(), nil)
		require.Error(t, err)
		assert.Equal(t, errcode.DBNotConnectedError, err.(*gn.Error).Code)
	})
}

func TestRepair_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, iotesting.GetTestDatabaseConfig()))
	defer op.Close()
	pool := op.Pool()

	_, err := pool.Exec(ctx, "DROP TABLE IF EXISTS analyses, documents CASCADE")
	require.NoError(t, err)
	require.NoError(t, ioschema.NewManager().Create(ctx, pool))

	rep := ioseq.NewRepairer()

	t.Run("empty table", func(t *testing.T) {
		next, err := rep.Repair(ctx, pool)
		require.NoError(t, err)
		assert.Equal(t, int64(1), next)
	})

	t.Run("explicit ids", func(t *testing.T) {
		for _, id := range []int{5, 12, 3} {
			_, err := pool.Exec(ctx,
				"INSERT INTO documents (id, filename, content) VALUES ($1, $2, '')",
				id, fmt.Sprintf("doc%d.txt", id))
			require.NoError(t, err)
		}

		next, err := rep.Repair(ctx, pool)
		require.NoError(t, err)
		assert.Equal(t, int64(13), next)

		var id int64
		err = pool.QueryRow(ctx,
			"INSERT INTO documents (filename, content) VALUES ('gen.txt', '') RETURNING id",
		).Scan(&id)
		require.NoError(t, err)
		assert.Equal(t, int64(13), id)
	})
}
