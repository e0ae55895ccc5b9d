package documentstore

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"cycletrack/internal/domain/entity"
	domainerrors "cycletrack/internal/domain/errors"
	"cycletrack/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocloud.dev/docstore"
	"gocloud.dev/gcerrors"
)

type accountRepository struct {
	accounts *docstore.Collection
	emails   *docstore.Collection
	logger   *slog.Logger
	now      func() time.Time
}

// NewAccountRepository creates a docstore-backed account repository.
func NewAccountRepository(colls *Collections, logger *slog.Logger) repository.AccountRepository {
	return newAccountRepository(colls, logger, time.Now)
}

func newAccountRepository(colls *Collections, logger *slog.Logger, now func() time.Time) *accountRepository {
	return &accountRepository{
		accounts: colls.Accounts,
		emails:   colls.Emails,
		logger:   logger,
		now:      now,
	}
}

func (repo *accountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	if id == "" {
		return nil, repository.ErrAccountNotFound
	}

	doc := &accountDocument{ID: id}
	if err := repo.accounts.Get(ctx, doc); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "get account document")
	}

	return doc.toEntity(), nil
}

// FindByEmail resolves the email claim first, then loads the account it points at.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if email == "" {
		return nil, repository.ErrAccountNotFound
	}

	claim := &emailClaimDocument{Email: email}
	if err := repo.emails.Get(ctx, claim); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "get email claim document")
	}

	return repo.FindByID(ctx, claim.AccountID)
}

// List returns every account ordered by creation time, then id.
func (repo *accountRepository) List(ctx context.Context) ([]*entity.Account, error) {
	iter := repo.accounts.Query().Get(ctx)
	defer iter.Stop()

	accounts := make([]*entity.Account, 0)
	for {
		doc := &accountDocument{}
		err := iter.Next(ctx, doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "iterate account documents")
		}
		accounts = append(accounts, doc.toEntity())
	}

	slices.SortFunc(accounts, func(a, b *entity.Account) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	return accounts, nil
}

// Create claims the email, then inserts the account. The claim is released if the insert fails.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	now := repo.now().UTC()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now

	claim := &emailClaimDocument{Email: account.Email, AccountID: account.ID}
	if err := repo.emails.Create(ctx, claim); err != nil {
		if gcerrors.Code(err) == gcerrors.AlreadyExists {
			return domainerrors.ErrEmailAlreadyRegistered
		}

		return errors.Wrap(err, "create email claim document")
	}

	if err := repo.accounts.Create(ctx, toAccountDocument(account)); err != nil {
		if delErr := repo.emails.Delete(ctx, &emailClaimDocument{Email: account.Email}); delErr != nil {
			repo.logger.Error("Failed to release email claim",
				slog.String("email", account.Email),
				slog.Any("error", delErr),
			)
		}

		return errors.Wrap(err, "create account document")
	}

	return nil
}

// Update replaces the whole stored record; concurrent writers race with last write winning.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	account.UpdatedAt = repo.now().UTC()

	if err := repo.accounts.Replace(ctx, toAccountDocument(account)); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return repository.ErrAccountNotFound
		}

		return errors.Wrap(err, "replace account document")
	}

	return nil
}
