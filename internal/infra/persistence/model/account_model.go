package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. The id is generated by the repository.
type AccountModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`

	DateOfBirth        *string `gorm:"type:varchar(64)"`
	CycleDurationDays  *int
	PeriodDurationDays *int
	HeightCm           *int
	WeightKg           *int
	LastPeriodStart    *string  `gorm:"type:varchar(64)"`
	LastPeriodEnd      *string  `gorm:"type:varchar(64)"`
	Preferences        []string `gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
