package documentstore

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"cycletrack/internal/domain/entity"
	domainerrors "cycletrack/internal/domain/errors"
	"cycletrack/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Second)

	return c.now
}

func newTestRepository(t *testing.T) *accountRepository {
	t.Helper()

	colls, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = colls.Close() })

	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	return newAccountRepository(colls, slog.New(slog.NewTextHandler(io.Discard, nil)), clock.Now)
}

func newAccount(username, email string) *entity.Account {
	return &entity.Account{Username: username, Email: email, PasswordHash: "digest"}
}

func TestAccountRepository_CreateAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	account := newAccount("alice", "a@x.com")
	require.NoError(t, repo.Create(ctx, account))
	assert.NotEmpty(t, account.ID)
	assert.False(t, account.CreatedAt.IsZero())
	assert.Equal(t, account.CreatedAt, account.UpdatedAt)

	byID, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "a@x.com", byID.Email)
	assert.Equal(t, "digest", byID.PasswordHash)
	assert.Nil(t, byID.DateOfBirth)
	assert.Nil(t, byID.LastPeriod)
	assert.Empty(t, byID.Preferences)

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)
}

func TestAccountRepository_NotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)

	_, err = repo.FindByID(ctx, "")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)

	err = repo.Update(ctx, &entity.Account{ID: "missing", Email: "m@x.com"})
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newAccount("alice", "a@x.com")))

	err := repo.Create(ctx, newAccount("alice2", "a@x.com"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyRegistered))

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
	assert.Equal(t, "alice", accounts[0].Username)
}

func TestAccountRepository_EmailIsCaseSensitive(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newAccount("alice", "a@x.com")))
	require.NoError(t, repo.Create(ctx, newAccount("alice", "A@x.com")))

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestAccountRepository_UpdateReplacesRecord(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	account := newAccount("alice", "a@x.com")
	require.NoError(t, repo.Create(ctx, account))
	createdAt := account.CreatedAt

	dob := "1990-05-01"
	height := 170
	account.DateOfBirth = &dob
	account.HeightCm = &height
	account.SetCycleAndPeriod(28, 5)
	account.SetLastPeriod("2024-01-01", "2024-01-05")
	account.Preferences = []string{"yoga", "sleep", "diet"}
	require.NoError(t, repo.Update(ctx, account))
	assert.True(t, account.UpdatedAt.After(createdAt))

	stored, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DateOfBirth)
	assert.Equal(t, "1990-05-01", *stored.DateOfBirth)
	require.NotNil(t, stored.HeightCm)
	assert.Equal(t, 170, *stored.HeightCm)
	assert.Nil(t, stored.WeightKg)
	require.NotNil(t, stored.CycleDurationDays)
	assert.Equal(t, 28, *stored.CycleDurationDays)
	require.NotNil(t, stored.PeriodDurationDays)
	assert.Equal(t, 5, *stored.PeriodDurationDays)
	require.NotNil(t, stored.LastPeriod)
	assert.Equal(t, entity.LastPeriod{StartDate: "2024-01-01", EndDate: "2024-01-05"}, *stored.LastPeriod)
	assert.Equal(t, []string{"yoga", "sleep", "diet"}, stored.Preferences)
	assert.True(t, stored.CreatedAt.Equal(createdAt))
}

func TestAccountRepository_ListOrderedByCreation(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, newAccount(name, name+"@x.com")))
	}

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "first", accounts[0].Username)
	assert.Equal(t, "second", accounts[1].Username)
	assert.Equal(t, "third", accounts[2].Username)
}

func TestAccountRepository_ListEmpty(t *testing.T) {
	repo := newTestRepository(t)

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestAccountRepository_ConcurrentRegistrationClaimsOnce(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := repo.Create(ctx, newAccount("alice", "a@x.com"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domainerrors.ErrEmailAlreadyRegistered):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestOpenURL_Memory(t *testing.T) {
	ctx := context.Background()

	colls, err := OpenURL(ctx, "mem://accounts/id", "mem://emails/email")
	require.NoError(t, err)
	t.Cleanup(func() { _ = colls.Close() })

	repo := NewAccountRepository(colls, slog.New(slog.NewTextHandler(io.Discard, nil)))
	account := newAccount("bob", "b@x.com")
	require.NoError(t, repo.Create(ctx, account))

	found, err := repo.FindByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)
}

func TestOpenURL_UnknownScheme(t *testing.T) {
	_, err := OpenURL(context.Background(), "nope://accounts", "mem://emails/email")
	assert.Error(t, err)
}
