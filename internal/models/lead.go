package models

import (
	"time"

	"github.com/google/uuid"
)

// LeadSource identifies how a lead entered the system
type LeadSource string

const (
	SourceWebsiteForm LeadSource = "website_form"
	SourceMissedCall  LeadSource = "missed_call"
)

// Lead represents a contact record generated by a website form submission or
// a missed call. Leads are append-only; they are never mutated after creation.
type Lead struct {
	ID       uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ClientID string     `json:"clientId" gorm:"type:varchar(255);not null;index"`
	Name     string     `json:"name" gorm:"type:varchar(255)"`
	Phone    string     `json:"phone" gorm:"type:varchar(50)"`
	Email    string     `json:"email" gorm:"type:varchar(255)"`
	Message  string     `json:"message" gorm:"type:text"`
	Source   LeadSource `json:"source" gorm:"type:varchar(50);not null;index"`

	CreatedAt time.Time `json:"createdAt"`
}

// Review represents a customer-submitted rating tied to a client. Ratings are
// expected to be 1-5 integers but the range is not enforced at this layer.
// Reviews are immutable after creation.
type Review struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ClientID string    `json:"clientId" gorm:"type:varchar(255);not null;index"`
	Name     string    `json:"name" gorm:"type:varchar(255)"`
	Rating   int       `json:"rating" gorm:"not null"`
	Comments string    `json:"comments" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
}

// CustomerContact represents a customer of a client. The review-request
// counter is advisory telemetry: it is incremented best-effort after each
// successful review-request send and never decremented.
type CustomerContact struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ClientID string    `json:"clientId" gorm:"type:varchar(255);not null;index"`
	Name     string    `json:"name" gorm:"type:varchar(255)"`
	Phone    string    `json:"phone" gorm:"type:varchar(50);index"`
	Email    string    `json:"email" gorm:"type:varchar(255)"`

	LastReviewRequestAt *time.Time `json:"lastReviewRequestAt"`
	ReviewRequestCount  int        `json:"reviewRequestCount" gorm:"default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Lead) TableName() string {
	return "leads"
}

func (Review) TableName() string {
	return "reviews"
}

func (CustomerContact) TableName() string {
	return "customer_contacts"
}
