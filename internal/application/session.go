package application

import (
	"context"
	"errors"
	"time"

	"github.com/mindgrid-app/mindgrid-api/internal/domain/entity"
	repo "github.com/mindgrid-app/mindgrid-api/internal/domain/repository"
	"github.com/mindgrid-app/mindgrid-api/pkg/helpers"
)

// Session is the request-scoped identity handed to downstream code. Within one
// request lifecycle it always exposes id, username, email and the onboarding
// flag without another store round trip.
type Session struct {
	UserID              string `json:"id"`
	Username            string `json:"username"`
	Email               string `json:"email"`
	Image               string `json:"image,omitempty"`
	CompletedOnboarding bool   `json:"completed_onboarding"`
	Authenticated       bool   `json:"authenticated"`
}

// IssueSession signs a fresh session token for an authenticated identity.
func (s *Service) IssueSession(u *entity.User) (string, time.Time, error) {
	claims := &helpers.SessionClaims{
		UserID:              u.ID,
		Username:            u.Username,
		Email:               u.Email,
		Image:               u.Image,
		CompletedOnboarding: u.CompletedOnboarding,
	}
	return s.Sessions.Issue(claims)
}

// RefreshSession rehydrates a session from previously issued claims,
// overwriting username, image and the onboarding flag from the current store
// record. The canonical lookup key is the id claim; email is consulted only
// when a token (e.g. minted by an external provider) carries no id. A token
// whose id no longer resolves keeps its claims as an anonymous carrier and is
// reported unauthenticated rather than upgraded to a fake identity.
func (s *Service) RefreshSession(ctx context.Context, claims *helpers.SessionClaims) (*Session, error) {
	sess := &Session{
		UserID:              claims.UserID,
		Username:            claims.Username,
		Email:               claims.Email,
		Image:               claims.Image,
		CompletedOnboarding: claims.CompletedOnboarding,
	}

	var (
		u   *entity.User
		err error
	)
	switch {
	case claims.UserID != "":
		u, err = s.Repo.GetByID(ctx, claims.UserID)
	case claims.Email != "":
		u, err = s.Repo.GetByEmail(ctx, NormalizeEmail(claims.Email))
	default:
		return sess, nil
	}

	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return sess, nil
		}
		s.logError("session refresh lookup failed", err, nil)
		return nil, ErrAuthUnavailable
	}

	sess.UserID = u.ID
	sess.Username = u.Username
	sess.Email = u.Email
	sess.Image = u.Image
	sess.CompletedOnboarding = u.CompletedOnboarding
	sess.Authenticated = true
	return sess, nil
}
