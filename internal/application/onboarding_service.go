package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mindgrid-app/mindgrid-api/internal/domain/entity"
	repo "github.com/mindgrid-app/mindgrid-api/internal/domain/repository"
	"github.com/mindgrid-app/mindgrid-api/pkg/helpers"
)

var ErrUserNotFound = errors.New("user not found")

// OnboardingInput is the full three-step wizard payload.
type OnboardingInput struct {
	FirstName          string
	LastName           string
	Company            string
	Role               string
	Interests          []string
	Experience         string
	EmailNotifications bool
	PushNotifications  bool
	WeeklyDigest       bool
	Avatar             string
	Bio                string
	Timezone           string
}

// CompleteOnboarding persists the wizard payload and marks onboarding done.
func (s *Service) CompleteOnboarding(ctx context.Context, userID string, in OnboardingInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logError("onboarding lookup failed", err, logrus.Fields{"user_id": userID})
		return nil, ErrAuthUnavailable
	}

	u.Name = in.FirstName
	u.Surname = in.LastName
	u.Company = in.Company
	u.Role = in.Role
	u.Interests = in.Interests
	u.Experience = in.Experience
	u.EmailNotifications = in.EmailNotifications
	u.PushNotifications = in.PushNotifications
	u.WeeklyDigest = in.WeeklyDigest
	u.Bio = in.Bio
	u.Timezone = in.Timezone
	if in.Avatar != "" {
		u.Image = in.Avatar
	}
	u.CompletedOnboarding = true

	if err := s.Repo.UpdateOnboarding(ctx, u); err != nil {
		s.logError("onboarding update failed", err, logrus.Fields{"user_id": userID})
		return nil, err
	}
	u.HashedPassword = nil
	return u, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	u.HashedPassword = nil
	return u, nil
}

// UploadAvatar stores an avatar image in GCS and records its public URL.
func (s *Service) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("avatar storage not configured")
	}
	if _, err := s.Repo.GetByID(ctx, userID); err != nil {
		return "", ErrUserNotFound
	}
	objectPath := "avatars/" + userID + "/" + uuid.NewString() + filepath.Ext(filename)
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		s.logError("avatar upload failed", err, logrus.Fields{"user_id": userID})
		return "", err
	}
	if err := s.Repo.UpdateImage(ctx, userID, url); err != nil {
		s.logError("avatar url update failed", err, logrus.Fields{"user_id": userID})
		return "", err
	}
	return url, nil
}
