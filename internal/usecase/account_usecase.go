// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"cycletrack/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// AuthenticateInput defines the data required to sign in.
type AuthenticateInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SetDateOfBirthInput overwrites the account's date of birth.
type SetDateOfBirthInput struct {
	DateOfBirth string `json:"dob" validate:"required"`
	Token       string `json:"token"`
}

// SetCycleAndPeriodInput overwrites both cycle and period durations.
type SetCycleAndPeriodInput struct {
	CycleDurationDays  *int   `json:"cycleDuration" validate:"required"`
	PeriodDurationDays *int   `json:"periodDuration" validate:"required"`
	Token              string `json:"token"`
}

// SetHeightInput overwrites the account's height.
type SetHeightInput struct {
	HeightCm *int   `json:"height" validate:"required"`
	Token    string `json:"token"`
}

// SetWeightInput overwrites the account's weight.
type SetWeightInput struct {
	WeightKg *int   `json:"weight" validate:"required"`
	Token    string `json:"token"`
}

// SetLastPeriodInput overwrites the last period range.
type SetLastPeriodInput struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Token     string `json:"token"`
}

// SetPreferencesInput overwrites the lifestyle preference tags.
type SetPreferencesInput struct {
	Preferences []string `json:"preferences"`
	Token       string   `json:"token"`
}

// GetAccountInput selects an account by id, or by the bearer of token when id is empty.
type GetAccountInput struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// --- Output DTOs ---

// RegisterOutput confirms a registration without exposing credentials.
type RegisterOutput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// AuthenticateOutput carries the issued bearer token.
type AuthenticateOutput struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// LastPeriodOutput is the nested last period range of a profile.
type LastPeriodOutput struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// ProfileOutput is the account view returned by the single-field profile mutations.
type ProfileOutput struct {
	ID                 string            `json:"id"`
	Username           string            `json:"username"`
	Email              string            `json:"email"`
	DateOfBirth        *string           `json:"dob"`
	CycleDurationDays  *int              `json:"cycleDuration"`
	PeriodDurationDays *int              `json:"periodDuration"`
	HeightCm           *int              `json:"height"`
	WeightKg           *int              `json:"weight"`
	LastPeriod         *LastPeriodOutput `json:"lastPeriod"`
	Preferences        []string          `json:"preferences"`
}

// LastPeriodSnapshot echoes the stored range alongside the rest of the profile at that moment.
type LastPeriodSnapshot struct {
	ID                 string  `json:"id"`
	Username           string  `json:"username"`
	Email              string  `json:"email"`
	DateOfBirth        *string `json:"dob"`
	CycleDurationDays  *int    `json:"cycleDuration"`
	PeriodDurationDays *int    `json:"periodDuration"`
	HeightCm           *int    `json:"height"`
	WeightKg           *int    `json:"weight"`
	StartDate          string  `json:"startDate"`
	EndDate            string  `json:"endDate"`
}

// PreferencesOutput echoes the stored preferences alongside the profile.
type PreferencesOutput struct {
	ID                 string   `json:"id"`
	Username           string   `json:"username"`
	Email              string   `json:"email"`
	DateOfBirth        *string  `json:"dob"`
	CycleDurationDays  *int     `json:"cycleDuration"`
	PeriodDurationDays *int     `json:"periodDuration"`
	HeightCm           *int     `json:"height"`
	WeightKg           *int     `json:"weight"`
	Preferences        []string `json:"preferences"`
}

// AccountSummary is the flattened account view returned by queries.
type AccountSummary struct {
	ID                 string   `json:"id"`
	Username           string   `json:"username"`
	Email              string   `json:"email"`
	DateOfBirth        *string  `json:"dob"`
	CycleDurationDays  *int     `json:"cycleDuration"`
	PeriodDurationDays *int     `json:"periodDuration"`
	HeightCm           *int     `json:"height"`
	WeightKg           *int     `json:"weight"`
	StartDate          *string  `json:"startDate"`
	EndDate            *string  `json:"endDate"`
	Preferences        []string `json:"preferences"`
}

// AccountUsecase defines the account operations exposed by the API surface.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Authenticate(ctx context.Context, input *AuthenticateInput) (*AuthenticateOutput, error)

	SetDateOfBirth(ctx context.Context, input *SetDateOfBirthInput) (*ProfileOutput, error)
	SetCycleAndPeriod(ctx context.Context, input *SetCycleAndPeriodInput) (*ProfileOutput, error)
	SetHeight(ctx context.Context, input *SetHeightInput) (*ProfileOutput, error)
	SetWeight(ctx context.Context, input *SetWeightInput) (*ProfileOutput, error)
	SetLastPeriod(ctx context.Context, input *SetLastPeriodInput) (*LastPeriodSnapshot, error)
	SetPreferences(ctx context.Context, input *SetPreferencesInput) (*PreferencesOutput, error)

	ListAccounts(ctx context.Context) ([]*AccountSummary, error)
	GetAccount(ctx context.Context, input *GetAccountInput) (*AccountSummary, error)
}

// NewProfileOutput maps an account onto the profile view.
func NewProfileOutput(account *entity.Account) *ProfileOutput {
	out := &ProfileOutput{
		ID:                 account.ID,
		Username:           account.Username,
		Email:              account.Email,
		DateOfBirth:        account.DateOfBirth,
		CycleDurationDays:  account.CycleDurationDays,
		PeriodDurationDays: account.PeriodDurationDays,
		HeightCm:           account.HeightCm,
		WeightKg:           account.WeightKg,
		Preferences:        account.Preferences,
	}
	if account.LastPeriod != nil {
		out.LastPeriod = &LastPeriodOutput{
			StartDate: account.LastPeriod.StartDate,
			EndDate:   account.LastPeriod.EndDate,
		}
	}

	return out
}

// NewLastPeriodSnapshot maps an account with a last period onto the snapshot view.
func NewLastPeriodSnapshot(account *entity.Account) *LastPeriodSnapshot {
	out := &LastPeriodSnapshot{
		ID:                 account.ID,
		Username:           account.Username,
		Email:              account.Email,
		DateOfBirth:        account.DateOfBirth,
		CycleDurationDays:  account.CycleDurationDays,
		PeriodDurationDays: account.PeriodDurationDays,
		HeightCm:           account.HeightCm,
		WeightKg:           account.WeightKg,
	}
	if account.LastPeriod != nil {
		out.StartDate = account.LastPeriod.StartDate
		out.EndDate = account.LastPeriod.EndDate
	}

	return out
}

// NewPreferencesOutput maps an account onto the preferences view.
func NewPreferencesOutput(account *entity.Account) *PreferencesOutput {
	return &PreferencesOutput{
		ID:                 account.ID,
		Username:           account.Username,
		Email:              account.Email,
		DateOfBirth:        account.DateOfBirth,
		CycleDurationDays:  account.CycleDurationDays,
		PeriodDurationDays: account.PeriodDurationDays,
		HeightCm:           account.HeightCm,
		WeightKg:           account.WeightKg,
		Preferences:        account.Preferences,
	}
}

// NewAccountSummary flattens an account for the query operations.
func NewAccountSummary(account *entity.Account) *AccountSummary {
	out := &AccountSummary{
		ID:                 account.ID,
		Username:           account.Username,
		Email:              account.Email,
		DateOfBirth:        account.DateOfBirth,
		CycleDurationDays:  account.CycleDurationDays,
		PeriodDurationDays: account.PeriodDurationDays,
		HeightCm:           account.HeightCm,
		WeightKg:           account.WeightKg,
		Preferences:        account.Preferences,
	}
	if account.LastPeriod != nil {
		start, end := account.LastPeriod.StartDate, account.LastPeriod.EndDate
		out.StartDate = &start
		out.EndDate = &end
	}

	return out
}
