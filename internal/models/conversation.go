package models

import "time"

// Message roles within a chat session.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one turn in a chat session. Messages are append-only
// and ordered by timestamp.
type ConversationMessage struct {
	SessionID     string         `json:"session_id"`
	UserID        string         `json:"user_id,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
	Role          string         `json:"role"`
	Message       string         `json:"message"`
	Context       map[string]any `json:"context,omitempty"`
	SearchResults map[string]any `json:"search_results,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Inquiry is a contact inquiry about a property, mutated by an external
// intake workflow and stored in its own index.
type Inquiry struct {
	InquiryID              string    `json:"inquiry_id"`
	PropertyID             string    `json:"property_id"`
	UserName               string    `json:"user_name"`
	UserEmail              string    `json:"user_email,omitempty"`
	UserPhone              string    `json:"user_phone,omitempty"`
	InquiryType            string    `json:"inquiry_type,omitempty"`
	Message                string    `json:"message,omitempty"`
	PreferredContactMethod string    `json:"preferred_contact_method,omitempty"`
	BudgetRange            string    `json:"budget_range,omitempty"`
	MoveInDate             time.Time `json:"move_in_date,omitempty"`
	AdditionalRequirements string    `json:"additional_requirements,omitempty"`
	Status                 string    `json:"status,omitempty"`
	Priority               string    `json:"priority,omitempty"`
	CreatedAt              time.Time `json:"created_at,omitempty"`
	UpdatedAt              time.Time `json:"updated_at,omitempty"`
}

// SiteVisit is a scheduled property viewing.
type SiteVisit struct {
	VisitID             string    `json:"visit_id"`
	PropertyID          string    `json:"property_id"`
	UserName            string    `json:"user_name"`
	UserEmail           string    `json:"user_email,omitempty"`
	UserPhone           string    `json:"user_phone,omitempty"`
	PreferredDate       time.Time `json:"preferred_date,omitempty"`
	PreferredTime       string    `json:"preferred_time,omitempty"`
	ConfirmedDate       time.Time `json:"confirmed_date,omitempty"`
	ConfirmedTime       string    `json:"confirmed_time,omitempty"`
	GroupSize           int       `json:"group_size,omitempty"`
	SpecialRequirements string    `json:"special_requirements,omitempty"`
	Status              string    `json:"status,omitempty"`
	CreatedAt           time.Time `json:"created_at,omitempty"`
	UpdatedAt           time.Time `json:"updated_at,omitempty"`
}
