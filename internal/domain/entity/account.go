// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// MinPreferences is the smallest number of preference tags an account may hold.
const MinPreferences = 3

// Account is the persisted user profile and credential record of a cycle tracker user.
// Optional profile fields stay nil until the owner sets them.
type Account struct {
	ID           string // Opaque identifier assigned by the store at creation.
	Username     string // Display name chosen at registration.
	Email        string // Unique login identifier, immutable after registration.
	PasswordHash string // bcrypt digest, never returned to callers.

	DateOfBirth        *string     // Free-form date of birth as submitted by the user.
	CycleDurationDays  *int        // Typical cycle length in days.
	PeriodDurationDays *int        // Typical period length in days.
	HeightCm           *int        // Height in centimetres.
	WeightKg           *int        // Weight in kilograms.
	LastPeriod         *LastPeriod // Start and end of the most recent period.
	Preferences        []string    // Lifestyle preference tags, at least MinPreferences when set.

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LastPeriod is the date range of the most recent period, kept as submitted.
type LastPeriod struct {
	StartDate string
	EndDate   string
}

// SetCycleAndPeriod overwrites both durations together; they have no independent setter.
func (a *Account) SetCycleAndPeriod(cycleDays, periodDays int) {
	a.CycleDurationDays = &cycleDays
	a.PeriodDurationDays = &periodDays
}

// SetLastPeriod replaces the last period range as a unit.
func (a *Account) SetLastPeriod(startDate, endDate string) {
	a.LastPeriod = &LastPeriod{StartDate: startDate, EndDate: endDate}
}

// HasEnoughPreferences reports whether prefs satisfies the minimum preference count.
func HasEnoughPreferences(prefs []string) bool {
	return len(prefs) >= MinPreferences
}
