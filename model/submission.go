package model

import (
	"time"

	"github.com/muhammadheryan/landing-api/constant"
)

// SubmissionEntity represents the submissions table entity
type SubmissionEntity struct {
	ID          string                    `db:"id" json:"id"`
	Name        string                    `db:"name" json:"name"`
	Email       *string                   `db:"email" json:"email,omitempty"`
	Phone       *string                   `db:"phone" json:"phone,omitempty"`
	ServiceType string                    `db:"service_type" json:"service_type"`
	Message     string                    `db:"message" json:"message"`
	Status      constant.SubmissionStatus `db:"status" json:"status"`
	CreatedAt   time.Time                 `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time                `db:"updated_at" json:"updated_at,omitempty"`
}

// EmailValue returns the email or "" when none was given.
func (s *SubmissionEntity) EmailValue() string {
	if s.Email == nil {
		return ""
	}
	return *s.Email
}

func (s *SubmissionEntity) PhoneValue() string {
	if s.Phone == nil {
		return ""
	}
	return *s.Phone
}

// ContactRequest is the raw contact form, decoded from JSON or form fields.
type ContactRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required_without=Phone,omitempty,max=254,email"`
	Phone       string `json:"phone" validate:"omitempty,max=32,phone"`
	ServiceType string `json:"service_type" validate:"required,service_type"`
	Message     string `json:"message" validate:"required,min=10,max=2000"`
}

// ContactResponse is the body of every /contact reply.
type ContactResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message,omitempty"`
	Error         string   `json:"error,omitempty"`
	Details       []string `json:"details,omitempty"`
	RetryAfter    int      `json:"retryAfter,omitempty"`
	FallbackEmail string   `json:"fallbackEmail,omitempty"`
}

// UpdateStatusRequest changes the status of one submission.
type UpdateStatusRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required,submission_status"`
}

type SubmissionListResponse struct {
	Success     bool               `json:"success"`
	Submissions []SubmissionEntity `json:"submissions"`
}

type SubmissionResponse struct {
	Success    bool              `json:"success"`
	Submission *SubmissionEntity `json:"submission"`
}
