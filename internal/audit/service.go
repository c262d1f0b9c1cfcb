package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records session changes for internal ops.
//
// Callers should treat audit logging as best-effort.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var (
	ErrInvalidEvent  = errors.New("audit: invalid event")
	ErrNotConfigured = errors.New("audit: repository not configured")
)

func (s *Service) Append(ctx context.Context, e Event) error {
	if s == nil || s.repo == nil {
		return ErrNotConfigured
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogSessionStored records a login.
func (s *Service) LogSessionStored(ctx context.Context, userID, societyID, ip string) error {
	return s.Append(ctx, Event{
		Type:      EventTypeSessionStored,
		UserID:    userID,
		SocietyID: societyID,
		IPAddress: ip,
		Message:   "session token stored",
	})
}

// LogSessionCleared records a logout.
func (s *Service) LogSessionCleared(ctx context.Context, userID, societyID, ip string) error {
	return s.Append(ctx, Event{
		Type:      EventTypeSessionCleared,
		UserID:    userID,
		SocietyID: societyID,
		IPAddress: ip,
		Message:   "session token deleted",
	})
}
