package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fieldops/catalog-system/internal/core/domain"
	"github.com/fieldops/catalog-system/internal/core/ports"
)

// ActivationService flips logged_in on a user record identified by a scan
// payload. An unknown uid is an expected outcome, not an error, and the
// update is issued even when the flag is already set so repeated scans of a
// valid badge stay a no-op.
type ActivationService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewActivationService(users ports.UserRepository, log zerolog.Logger) *ActivationService {
	return &ActivationService{users: users, log: log}
}

// Activate looks up the user and issues the logged_in update.
func (s *ActivationService) Activate(ctx context.Context, uid string) (ports.ActivationOutcome, error) {
	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("uid", uid).Msg("scan payload does not match a user")
			return ports.OutcomeNotFound, nil
		}
		return "", fmt.Errorf("%w: %v", domain.ErrActivationFailed, err)
	}

	if user.LoggedIn {
		s.log.Debug().Str("uid", uid).Msg("user already logged in, re-issuing update")
	}
	if err := s.users.SetLoggedIn(ctx, uid); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrActivationFailed, err)
	}

	s.log.Info().Str("uid", uid).Msg("session activated")
	return ports.OutcomeActivated, nil
}
