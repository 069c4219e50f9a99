package main

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"quotedesk/constants"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is a site account. The username doubles as the primary key.
type User struct {
	ID            string         `gorm:"primaryKey;size:25"`
	PasswordHash  string         `gorm:"size:128;not null"`
	Role          Role           `gorm:"size:16;not null;default:customer"`
	CreatedAt     time.Time
	QuoteRequests []QuoteRequest `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// StatusChange is one admin response recorded against a quote request
type StatusChange struct {
	Status     string    `json:"status"`
	QuotePrice *float64  `json:"quote_price"`
	At         time.Time `json:"at"`
}

// QuoteRequest is a customer's request for a priced quote. IDs are random
// six digit numbers, see createQuoteRequest.
type QuoteRequest struct {
	ID            int    `gorm:"primaryKey;autoIncrement:false"`
	UserID        string `gorm:"size:25;not null;index"`
	BusinessType  string `gorm:"size:100;not null"`
	Requirements  string `gorm:"type:text;not null"`
	ContactInfo   string `gorm:"size:100;not null"`
	Status        string `gorm:"size:32;not null"`
	QuotePrice    *float64
	StatusHistory datatypes.JSONSlice[StatusChange]
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q *QuoteRequest) BeforeCreate(tx *gorm.DB) error {
	if q.Status == "" {
		q.Status = constants.STATUS_PENDING
	}
	return nil
}

// Update is a public announcement posted by the admin. Timestamp keeps the
// "YYYY-MM-DD HH:MM:SS" text form so it sorts lexically.
type Update struct {
	ID        uint   `gorm:"primaryKey"`
	Content   string `gorm:"type:text;not null"`
	Timestamp string `gorm:"size:20;not null;index"`
}

// ContactMessage is a message left through the public contact form
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	Email     string    `gorm:"size:100;not null"`
	Message   string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"not null;index"`
}

func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return nil
}

// Review is a public testimonial. Username is free text, not a user reference.
type Review struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"size:100;not null"`
	Content   string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"not null;index"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	return nil
}
