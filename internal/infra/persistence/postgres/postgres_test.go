package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"cycletrack/config"
	"cycletrack/internal/domain/entity"
	"cycletrack/internal/domain/repository"
	"cycletrack/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAccountMapping_RoundTrip(t *testing.T) {
	dob := "1990-05-01"
	height := 170
	account := &entity.Account{
		ID:           uuid.NewString(),
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "digest",
		DateOfBirth:  &dob,
		HeightCm:     &height,
		LastPeriod:   &entity.LastPeriod{StartDate: "2024-01-01", EndDate: "2024-01-05"},
		Preferences:  []string{"yoga", "sleep", "diet"},
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	account.SetCycleAndPeriod(28, 5)

	accountM, err := fromAccountDomain(account)
	require.NoError(t, err)
	require.NotNil(t, accountM.LastPeriodStart)
	assert.Equal(t, "2024-01-01", *accountM.LastPeriodStart)

	assert.Equal(t, account, toAccountDomain(accountM))
}

func TestAccountMapping_NoLastPeriod(t *testing.T) {
	accountM := &model.AccountModel{ID: uuid.New(), Email: "a@x.com"}

	account := toAccountDomain(accountM)

	assert.Nil(t, account.LastPeriod)
	assert.Nil(t, account.WeightKg)
}

func TestAccountMapping_RejectsNonUUID(t *testing.T) {
	_, err := fromAccountDomain(&entity.Account{ID: "not-a-uuid"})
	assert.Error(t, err)
}

func TestAccountRepository_FindByIDRejectsNonUUID(t *testing.T) {
	repo := NewAccountRepository(nil)

	_, err := repo.FindByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestIsUniqueConstraintViolation(t *testing.T) {
	assert.False(t, isUniqueConstraintViolation(nil))
	assert.True(t, isUniqueConstraintViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintViolation(errors.Wrap(gorm.ErrDuplicatedKey, "insert")))
	assert.True(t, isUniqueConstraintViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_accounts_email" (SQLSTATE 23505)`)))
	assert.False(t, isUniqueConstraintViolation(errors.New("connection refused")))
}

func TestPoolWaitAttrs(t *testing.T) {
	prev := sql.DBStats{WaitCount: 2, WaitDuration: 10 * time.Millisecond}

	_, _, ok := poolWaitAttrs(prev, prev)
	assert.False(t, ok)

	_, level, ok := poolWaitAttrs(prev, sql.DBStats{WaitCount: 3, WaitDuration: 20 * time.Millisecond})
	assert.True(t, ok)
	assert.Equal(t, slog.LevelDebug, level)

	attrs, level, ok := poolWaitAttrs(prev, sql.DBStats{WaitCount: 4, WaitDuration: 110 * time.Millisecond})
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, level)
	assert.NotEmpty(t, attrs)
}

func TestGormSlogLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	gormLogger := newGormSlogLogger(base, &config.Config{})
	sqlFn := func() (string, int64) { return "SELECT 1", 1 }

	gormLogger.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	gormLogger.Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))
	assert.Contains(t, buf.String(), "Account query failed")
	assert.Contains(t, buf.String(), `"component":"gorm"`)
	buf.Reset()

	gormLogger.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)
	assert.Contains(t, buf.String(), "Slow account query")
	buf.Reset()

	gormLogger.Trace(context.Background(), time.Now(), sqlFn, nil)
	assert.Empty(t, buf.String())

	gormLogger.LogMode(logger.Info).Trace(context.Background(), time.Now(), sqlFn, nil)
	assert.Contains(t, buf.String(), "SELECT 1")
	buf.Reset()

	gormLogger.LogMode(logger.Silent).Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))
	assert.Empty(t, buf.String())
}
