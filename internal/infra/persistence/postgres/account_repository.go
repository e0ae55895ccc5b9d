package postgres

import (
	"context"
	"time"

	"cycletrack/internal/domain/entity"
	domainerrors "cycletrack/internal/domain/errors"
	"cycletrack/internal/domain/repository"
	"cycletrack/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements the domain.AccountRepository interface using GORM.
type accountRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db, now: time.Now}
}

func (repo *accountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		// Not a key this table could ever hold.
		return nil, repository.ErrAccountNotFound
	}

	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).Where("id = ?", accountID).First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

func (repo *accountRepository) List(ctx context.Context) ([]*entity.Account, error) {
	var accountMs []*model.AccountModel
	if err := repo.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&accountMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	accounts := make([]*entity.Account, 0, len(accountMs))
	for _, accountM := range accountMs {
		accounts = append(accounts, toAccountDomain(accountM))
	}

	return accounts, nil
}

// Create inserts the account; the unique email index rejects duplicates.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	now := repo.now().UTC()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now

	accountM, err := fromAccountDomain(account)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailAlreadyRegistered
		}

		return errors.Wrap(err, "failed to create account")
	}

	return nil
}

// Update overwrites every mutable column of an existing row.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	account.UpdatedAt = repo.now().UTC()

	accountM, err := fromAccountDomain(account)
	if err != nil {
		return repository.ErrAccountNotFound
	}

	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", accountM.ID).
		Select("*").
		Omit("id", "email", "created_at").
		Updates(accountM)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update account")
	}

	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

func toAccountDomain(accountM *model.AccountModel) *entity.Account {
	account := &entity.Account{
		ID:                 accountM.ID.String(),
		Username:           accountM.Username,
		Email:              accountM.Email,
		PasswordHash:       accountM.PasswordHash,
		DateOfBirth:        accountM.DateOfBirth,
		CycleDurationDays:  accountM.CycleDurationDays,
		PeriodDurationDays: accountM.PeriodDurationDays,
		HeightCm:           accountM.HeightCm,
		WeightKg:           accountM.WeightKg,
		Preferences:        accountM.Preferences,
		CreatedAt:          accountM.CreatedAt,
		UpdatedAt:          accountM.UpdatedAt,
	}
	if accountM.LastPeriodStart != nil || accountM.LastPeriodEnd != nil {
		account.LastPeriod = &entity.LastPeriod{
			StartDate: derefString(accountM.LastPeriodStart),
			EndDate:   derefString(accountM.LastPeriodEnd),
		}
	}

	return account
}

func fromAccountDomain(account *entity.Account) (*model.AccountModel, error) {
	accountID, err := uuid.Parse(account.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid account id")
	}

	accountM := &model.AccountModel{
		ID:                 accountID,
		Username:           account.Username,
		Email:              account.Email,
		PasswordHash:       account.PasswordHash,
		DateOfBirth:        account.DateOfBirth,
		CycleDurationDays:  account.CycleDurationDays,
		PeriodDurationDays: account.PeriodDurationDays,
		HeightCm:           account.HeightCm,
		WeightKg:           account.WeightKg,
		Preferences:        account.Preferences,
		CreatedAt:          account.CreatedAt,
		UpdatedAt:          account.UpdatedAt,
	}
	if account.LastPeriod != nil {
		start, end := account.LastPeriod.StartDate, account.LastPeriod.EndDate
		accountM.LastPeriodStart = &start
		accountM.LastPeriodEnd = &end
	}

	return accountM, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
