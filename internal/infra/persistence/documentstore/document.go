package documentstore

import (
	"time"

	"cycletrack/internal/domain/entity"
)

// accountDocument is the stored shape of an account.
type accountDocument struct {
	ID           string `docstore:"id"`
	Username     string `docstore:"username"`
	Email        string `docstore:"email"`
	PasswordHash string `docstore:"passwordHash"`

	DateOfBirth        *string             `docstore:"dob"`
	CycleDurationDays  *int                `docstore:"cycleDuration"`
	PeriodDurationDays *int                `docstore:"periodDuration"`
	HeightCm           *int                `docstore:"height"`
	WeightKg           *int                `docstore:"weight"`
	LastPeriod         *lastPeriodDocument `docstore:"lastPeriod"`
	Preferences        []string            `docstore:"preferences"`

	CreatedAt time.Time `docstore:"createdAt"`
	UpdatedAt time.Time `docstore:"updatedAt"`
}

type lastPeriodDocument struct {
	StartDate string `docstore:"startDate"`
	EndDate   string `docstore:"endDate"`
}

// emailClaimDocument reserves an email for one account; its key is the email itself.
type emailClaimDocument struct {
	Email     string `docstore:"email"`
	AccountID string `docstore:"accountId"`
}

func toAccountDocument(account *entity.Account) *accountDocument {
	doc := &accountDocument{
		ID:                 account.ID,
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
		doc.LastPeriod = &lastPeriodDocument{
			StartDate: account.LastPeriod.StartDate,
			EndDate:   account.LastPeriod.EndDate,
		}
	}

	return doc
}

func (d *accountDocument) toEntity() *entity.Account {
	account := &entity.Account{
		ID:                 d.ID,
		Username:           d.Username,
		Email:              d.Email,
		PasswordHash:       d.PasswordHash,
		DateOfBirth:        d.DateOfBirth,
		CycleDurationDays:  d.CycleDurationDays,
		PeriodDurationDays: d.PeriodDurationDays,
		HeightCm:           d.HeightCm,
		WeightKg:           d.WeightKg,
		Preferences:        d.Preferences,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if d.LastPeriod != nil {
		account.LastPeriod = &entity.LastPeriod{
			StartDate: d.LastPeriod.StartDate,
			EndDate:   d.LastPeriod.EndDate,
		}
	}

	return account
}
