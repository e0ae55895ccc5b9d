// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "cycletrack/internal/delivery/context"
	"cycletrack/internal/domain/entity"
	domainerrors "cycletrack/internal/domain/errors"
	"cycletrack/internal/domain/repository"
	"cycletrack/internal/domain/service"
	"cycletrack/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	msgRegistered    = "User registered successfully!"
	msgSignedIn      = "Sign in successful"
	msgTooFewChoices = "You must select at least 3 preferences."
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account after checking email uniqueness and the password policy.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" || input.ConfirmPassword == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("username, email, password and confirmPassword are required")
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	_, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if err == nil {
		srv.log(ctx).Warn("Email already registered", slog.String("email", input.Email))

		return nil, domainerrors.ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to look up account by email")
	}

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	if input.Password != input.ConfirmPassword {
		return nil, domainerrors.ErrCredentialMismatch
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	account := &entity.Account{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	if err := srv.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, domainerrors.ErrEmailAlreadyRegistered) {
			srv.log(ctx).Warn("Email claimed concurrently", slog.String("email", input.Email))

			return nil, domainerrors.ErrEmailAlreadyRegistered
		}
		srv.log(ctx).Error("Failed to create account", slog.String("email", input.Email), slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	srv.log(ctx).Debug("Registration completed", slog.String("accountID", account.ID))

	return &usecase.RegisterOutput{
		Username: account.Username,
		Email:    account.Email,
		Message:  msgRegistered,
	}, nil
}

// Authenticate verifies the credentials and issues a one hour bearer token.
func (srv *accountService) Authenticate(ctx context.Context, input *usecase.AuthenticateInput) (*usecase.AuthenticateOutput, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("email and password are required")
	}

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		srv.log(ctx).Warn("Sign in for unknown email", slog.String("email", input.Email))

		return nil, domainerrors.ErrAccountNotFound.WithDetails("User does not exist")
	}
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to look up account by email")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Invalid password", slog.String("accountID", account.ID))

		return nil, domainerrors.ErrInvalidCredential
	}

	token, err := srv.tokenService.GenerateToken(account.ID, account.Email)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.String("accountID", account.ID), slog.Any("error", err))

		return nil, domainerrors.ErrTokenIssueFailed.WrapMessage(err.Error())
	}

	return &usecase.AuthenticateOutput{Token: token, Message: msgSignedIn}, nil
}

// SetDateOfBirth overwrites the date of birth unconditionally.
func (srv *accountService) SetDateOfBirth(ctx context.Context, input *usecase.SetDateOfBirthInput) (*usecase.ProfileOutput, error) {
	account, err := srv.mutate(ctx, input.Token, func(account *entity.Account) {
		dob := input.DateOfBirth
		account.DateOfBirth = &dob
	})
	if err != nil {
		return nil, err
	}

	return usecase.NewProfileOutput(account), nil
}

// SetCycleAndPeriod overwrites both durations together.
func (srv *accountService) SetCycleAndPeriod(ctx context.Context, input *usecase.SetCycleAndPeriodInput) (*usecase.ProfileOutput, error) {
	if input.CycleDurationDays == nil || input.PeriodDurationDays == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("cycleDuration and periodDuration are required")
	}

	account, err := srv.mutate(ctx, input.Token, func(account *entity.Account) {
		account.SetCycleAndPeriod(*input.CycleDurationDays, *input.PeriodDurationDays)
	})
	if err != nil {
		return nil, err
	}

	return usecase.NewProfileOutput(account), nil
}

func (srv *accountService) SetHeight(ctx context.Context, input *usecase.SetHeightInput) (*usecase.ProfileOutput, error) {
	if input.HeightCm == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("height is required")
	}

	account, err := srv.mutate(ctx, input.Token, func(account *entity.Account) {
		height := *input.HeightCm
		account.HeightCm = &height
	})
	if err != nil {
		return nil, err
	}

	return usecase.NewProfileOutput(account), nil
}

func (srv *accountService) SetWeight(ctx context.Context, input *usecase.SetWeightInput) (*usecase.ProfileOutput, error) {
	if input.WeightKg == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("weight is required")
	}

	account, err := srv.mutate(ctx, input.Token, func(account *entity.Account) {
		weight := *input.WeightKg
		account.WeightKg = &weight
	})
	if err != nil {
		return nil, err
	}

	return usecase.NewProfileOutput(account), nil
}

// SetLastPeriod replaces the last period range and echoes the profile at that moment.
func (srv *accountService) SetLastPeriod(ctx context.Context, input *usecase.SetLastPeriodInput) (*usecase.LastPeriodSnapshot, error) {
	account, err := srv.mutate(ctx, input.Token, func(account *entity.Account) {
		account.SetLastPeriod(input.StartDate, input.EndDate)
	})
	if err != nil {
		return nil, err
	}

	return usecase.NewLastPeriodSnapshot(account), nil
}

// SetPreferences replaces the preference tags. The count is checked before the token.
func (srv *accountService) SetPreferences(ctx context.Context, input *usecase.SetPreferencesInput) (*usecase.PreferencesOutput, error) {
	if !entity.HasEnoughPreferences(input.Preferences) {
		return nil, domainerrors.ErrValidationFailed.WithDetails(msgTooFewChoices)
	}

	prefs := make([]string, len(input.Preferences))
	copy(prefs, input.Preferences)

	account, err := srv.mutate(ctx, input.Token, func(account *entity.Account) {
		account.Preferences = prefs
	})
	if err != nil {
		return nil, err
	}

	return usecase.NewPreferencesOutput(account), nil
}

// ListAccounts returns a summary of every account.
func (srv *accountService) ListAccounts(ctx context.Context) ([]*usecase.AccountSummary, error) {
	accounts, err := srv.accountRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list accounts", slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list accounts")
	}

	summaries := make([]*usecase.AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, usecase.NewAccountSummary(account))
	}

	return summaries, nil
}

// GetAccount looks the account up by id when given, otherwise by the bearer of the token.
func (srv *accountService) GetAccount(ctx context.Context, input *usecase.GetAccountInput) (*usecase.AccountSummary, error) {
	switch {
	case input.ID != "":
		account, err := srv.findByID(ctx, input.ID)
		if err != nil {
			return nil, err
		}

		return usecase.NewAccountSummary(account), nil
	case input.Token != "":
		account, err := srv.authorize(ctx, input.Token)
		if err != nil {
			return nil, err
		}

		return usecase.NewAccountSummary(account), nil
	default:
		return nil, domainerrors.ErrValidationFailed.WithDetails("either id or token is required")
	}
}

// authorize verifies the bearer token and resolves it to a stored account.
func (srv *accountService) authorize(ctx context.Context, token string) (*entity.Account, error) {
	if token == "" {
		return nil, domainerrors.ErrUnauthorized.WithDetails("missing token")
	}

	claims, err := srv.tokenService.ValidateToken(token)
	if err != nil {
		srv.log(ctx).Warn("Token rejected", slog.Any("error", err))

		return nil, domainerrors.ErrUnauthorized
	}

	return srv.findByID(ctx, claims.UserID)
}

func (srv *accountService) findByID(ctx context.Context, id string) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, domainerrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find account by ID")
	}

	return account, nil
}

// mutate runs the shared authorize, apply, persist sequence of every profile mutation.
func (srv *accountService) mutate(ctx context.Context, token string, apply func(*entity.Account)) (*entity.Account, error) {
	account, err := srv.authorize(ctx, token)
	if err != nil {
		return nil, err
	}

	apply(account)

	if err := srv.accountRepo.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}
		srv.log(ctx).Error("Failed to update account", slog.String("accountID", account.ID), slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to update account")
	}

	srv.log(ctx).Debug("Account updated", slog.String("accountID", account.ID))

	return account, nil
}
