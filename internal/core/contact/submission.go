package contact

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength    = 100
	maxSubjectLength = 200
	maxMessageLength = 5000
	defaultSubject   = "New message from your portfolio"
)

// Submission is a visitor's contact form
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Normalize trims whitespace and fills in the default subject
func (s Submission) Normalize() Submission {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Subject = strings.TrimSpace(s.Subject)
	s.Message = strings.TrimSpace(s.Message)
	if s.Subject == "" {
		s.Subject = defaultSubject
	}
	return s
}

// Validate checks required fields and limits. Call on a normalized submission.
func (s Submission) Validate() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidSubmission)
	case utf8.RuneCountInString(s.Name) > maxNameLength:
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidSubmission, maxNameLength)
	case s.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidSubmission)
	case s.Message == "":
		return fmt.Errorf("%w: message is required", ErrInvalidSubmission)
	case utf8.RuneCountInString(s.Subject) > maxSubjectLength:
		return fmt.Errorf("%w: subject exceeds %d characters", ErrInvalidSubmission, maxSubjectLength)
	case utf8.RuneCountInString(s.Message) > maxMessageLength:
		return fmt.Errorf("%w: message exceeds %d characters", ErrInvalidSubmission, maxMessageLength)
	}

	addr, err := mail.ParseAddress(s.Email)
	if err != nil || addr.Address != s.Email {
		return fmt.Errorf("%w: email address is not valid", ErrInvalidSubmission)
	}
	return nil
}
