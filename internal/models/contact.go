package models

import "time"

type ContactSubmission struct {
	ID          uint      `gorm:"primaryKey"`
	FirstName   string    `gorm:"not null"`
	LastName    string    `gorm:"not null"`
	Email       string    `gorm:"not null"`
	CountryName string    `gorm:"not null"`
	CompanyType string    `gorm:"not null"`
	Message     string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}
