package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"cycletrack/internal/domain/repository"
	"cycletrack/internal/infra/auth"
	"cycletrack/internal/infra/persistence/documentstore"
	"cycletrack/internal/usecase"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "account-service-secret"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

type accountServiceFixtures struct {
	service usecase.AccountUsecase
	repo    repository.AccountRepository
	clock   *testClock
}

// createTestAccountService wires the service to an in-memory store, a fast hasher and a controllable clock.
func createTestAccountService(t *testing.T) accountServiceFixtures {
	t.Helper()

	colls, err := documentstore.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = colls.Close() })

	clock := &testClock{now: time.Now()}
	repo := documentstore.NewAccountRepository(colls, newDiscardLogger())

	service := NewAccountService(AccountServiceParams{
		AccountRepo:  repo,
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: auth.NewJWTServiceWithClock(testSecret, clock.Now),
		Logger:       newDiscardLogger(),
	})

	return accountServiceFixtures{
		service: service,
		repo:    repo,
		clock:   clock,
	}
}

func (fx accountServiceFixtures) register(t *testing.T, username, email, password string) {
	t.Helper()

	_, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	require.NoError(t, err)
}

func (fx accountServiceFixtures) signIn(t *testing.T, email, password string) string {
	t.Helper()

	out, err := fx.service.Authenticate(context.Background(), &usecase.AuthenticateInput{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	return out.Token
}

func intPtr(v int) *int {
	return &v
}
