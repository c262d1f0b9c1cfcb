package features

import (
	"errors"
	"strings"
)

// Timestamps are kept as the backend sends them (RFC 3339, or empty when not
// set) so that one odd value never fails a whole list.

// Visitor is an expected or logged guest of a flat.
type Visitor struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
	FlatNumber string `json:"flatNumber,omitempty"`
	Status     string `json:"status,omitempty"`
	ExpectedAt string `json:"expectedAt,omitempty"`
}

// Notice is a society-wide announcement.
type Notice struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"body,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// EmergencyContact is a phone number residents can reach in an emergency.
type EmergencyContact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Phone string `json:"phone"`
}

// ComplaintInput is what a resident submits.
type ComplaintInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

func (c ComplaintInput) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		return errors.New("description is required")
	}
	return nil
}

// Complaint is a submitted complaint as recorded by the backend.
type Complaint struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Status      string `json:"status,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}
