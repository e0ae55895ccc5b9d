// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"cycletrack/internal/domain/entity"
)

// ErrAccountNotFound is returned when no account matches the lookup.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the operations the account service needs from the store.
// Implementations return domainerrors.ErrEmailAlreadyRegistered from Create when the email is taken.
type AccountRepository interface {
	// FindByID retrieves a single account by its identifier.
	FindByID(ctx context.Context, id string) (*entity.Account, error)

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// List returns every account ordered by creation time.
	List(ctx context.Context) ([]*entity.Account, error)

	// Create persists a new account and fills in its ID and timestamps.
	Create(ctx context.Context, account *entity.Account) error

	// Update replaces the stored record with the given account.
	Update(ctx context.Context, account *entity.Account) error
}
