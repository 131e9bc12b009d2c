package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Client represents a tenant business account. Each client is the unit of
// configuration and data isolation: inbound calls and form submissions are
// routed to a client, and all messaging templates are configured per client.
type Client struct {
	ID   string `json:"id" gorm:"type:varchar(255);primary_key"`
	Name string `json:"name" gorm:"type:varchar(255);not null"`

	// Public links surfaced in outbound messages
	Website     string `json:"website" gorm:"type:varchar(2048)"`
	BookingLink string `json:"bookingLink" gorm:"type:varchar(2048)"`
	ReviewLink  string `json:"reviewLink" gorm:"type:varchar(2048)"`

	// Telephony routing. PhoneNumber is the inbound number in E.164 form and
	// uniquely identifies the client for voice/SMS webhooks.
	PhoneNumber      string `json:"phoneNumber" gorm:"type:varchar(50);uniqueIndex:idx_clients_phone,where:phone_number <> ''"`
	ForwardingNumber string `json:"forwardingNumber" gorm:"type:varchar(50)"`

	// Outbound channel identifiers. Empty means the system-wide default
	// from-number / from-address is used.
	OutboundNumber string `json:"outboundNumber" gorm:"type:varchar(50)"`
	FromEmail      string `json:"fromEmail" gorm:"type:varchar(255)"`

	// OwnerEmail receives private feedback for low-rating reviews.
	OwnerEmail string `json:"ownerEmail" gorm:"type:varchar(255)"`

	// Tenant-configurable message templates. Empty means the built-in
	// default for that notification kind is used.
	MissedCallTemplate    string `json:"missedCallTemplate" gorm:"type:text"`
	ReviewRequestTemplate string `json:"reviewRequestTemplate" gorm:"type:text"`

	// AutoReview sends a review-request SMS immediately when a new customer
	// contact is created.
	AutoReview bool `json:"autoReview" gorm:"default:false"`

	Settings datatypes.JSON `json:"settings" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserRole represents an identity role
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleClient UserRole = "client"
)

// Profile represents a console user identity
type Profile struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email     string         `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	FullName  string         `json:"fullName" gorm:"type:varchar(255)"`
	Role      UserRole       `json:"role" gorm:"type:varchar(20);not null;default:'client'"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ClientUser links a profile to a client (many-to-many)
type ClientUser struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProfileID uuid.UUID `json:"profileId" gorm:"type:uuid;not null;uniqueIndex:idx_client_users_link"`
	ClientID  string    `json:"clientId" gorm:"type:varchar(255);not null;uniqueIndex:idx_client_users_link;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies table names
func (Client) TableName() string {
	return "clients"
}

func (Profile) TableName() string {
	return "profiles"
}

func (ClientUser) TableName() string {
	return "client_users"
}

// IsAdmin reports whether the profile has the admin role
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
