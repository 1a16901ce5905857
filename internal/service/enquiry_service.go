package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/model"
)

type EnquiryStore interface {
	Save(ctx context.Context, e *model.Enquiry) (int, error)
	List(ctx context.Context) ([]model.Enquiry, error)
}

// EnquiryService records contact form messages and forwards them to support.
type EnquiryService struct {
	clock
	repo      EnquiryStore
	announcer *Announcer
}

func NewEnquiryService(repo EnquiryStore, announcer *Announcer) *EnquiryService {
	return &EnquiryService{repo: repo, announcer: announcer}
}

func (s *EnquiryService) Submit(ctx context.Context, e *model.Enquiry) (*model.Enquiry, error) {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)
	e.Subject = strings.TrimSpace(e.Subject)
	e.Message = strings.TrimSpace(e.Message)
	if e.Name == "" {
		return nil, apperr.Invalid("name", "is required")
	}
	if !validEmail(e.Email) {
		return nil, apperr.Invalid("email", "must be a valid email address")
	}
	if e.Message == "" {
		return nil, apperr.Invalid("message", "is required")
	}
	if utf8.RuneCountInString(e.Message) > 5000 {
		return nil, apperr.Invalid("message", "must not exceed 5000 characters")
	}
	id, err := s.repo.Save(ctx, e)
	if err != nil {
		return nil, err
	}
	e.ID = id
	e.CreatedAt = s.Now()

	s.announcer.Support(ctx, fmt.Sprintf("New enquiry #%d from %s <%s>\n%s\n\n%s", e.ID, e.Name, e.Email, e.Subject, e.Message))
	return e, nil
}

func (s *EnquiryService) List(ctx context.Context) ([]model.Enquiry, error) {
	return s.repo.List(ctx)
}
