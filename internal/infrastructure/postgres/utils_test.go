package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ventas-sync-api/internal/domain"
)

func TestWrapErr_Clasificacion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"lock_not_available", &pgconn.PgError{Code: codeLockNotAvailable}, domain.ErrLockTimeout},
		{"query_canceled", &pgconn.PgError{Code: codeQueryCanceled}, domain.ErrLockTimeout},
		{"deadline", context.DeadlineExceeded, domain.ErrLockTimeout},
		{"deadlock", &pgconn.PgError{Code: codeDeadlockDetected}, domain.ErrTxConflict},
		{"serialization", &pgconn.PgError{Code: codeSerializationFailure}, domain.ErrTxConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapErr("op", fmt.Errorf("driver: %w", tt.err))
			assert.True(t, errors.Is(err, tt.want))
			assert.True(t, errors.Is(err, tt.err), "conserva la causa original")
			assert.Contains(t, err.Error(), "op:")
		})
	}
}

func TestWrapErr_OtrosErroresNoSeClasifican(t *testing.T) {
	err := wrapErr("op", &pgconn.PgError{Code: "42P01"})
	assert.False(t, errors.Is(err, domain.ErrLockTimeout))
	assert.False(t, errors.Is(err, domain.ErrTxConflict))
	assert.Equal(t, domain.CodeInternal, domain.ErrorCode(err))

	assert.Equal(t, domain.CodeLockTimeout, domain.ErrorCode(wrapErr("op", &pgconn.PgError{Code: codeLockNotAvailable})))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "sales_client_id_key"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: codeCheckViolation}))
	assert.True(t, isCheckViolation(fmt.Errorf("x: %w", &pgconn.PgError{Code: codeCheckViolation})))
}
