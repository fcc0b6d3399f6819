package application

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"

	"github.com/mindgrid-app/mindgrid-api/internal/domain/entity"
	repo "github.com/mindgrid-app/mindgrid-api/internal/domain/repository"
	"github.com/mindgrid-app/mindgrid-api/pkg/helpers"
	"github.com/mindgrid-app/mindgrid-api/pkg/mailer"
)

// Authentication failures are distinct so the internal log can name the real
// reason; handlers collapse them into a generic message before answering.
var (
	ErrMissingCredentials      = errors.New("email and password are required")
	ErrInvalidEmailFormat      = errors.New("invalid email format")
	ErrPasswordTooShort        = errors.New("password must be at least 8 characters")
	ErrNoAccountFound          = errors.New("no account found for this email")
	ErrInvalidPassword         = errors.New("incorrect password")
	ErrAuthUnavailable         = errors.New("authentication temporarily unavailable")
	ErrRegistrationUnavailable = errors.New("registration temporarily unavailable")
)

// emailPattern is the local@domain.tld shape check applied before any store
// lookup. Full RFC parsing is not the contract here.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLen = 8

type Service struct {
	Repo        repo.UserRepository
	Sessions    *helpers.SessionManager
	GCS         *storage.Client
	GCSBucket   string
	Pub         *helpers.RabbitPublisher
	Logger      *logrus.Logger
	MailEnabled bool
	SignInURL   string
}

func NewService(r repo.UserRepository, sessions *helpers.SessionManager, gcs *storage.Client, gcsBucket string, pub *helpers.RabbitPublisher, logger *logrus.Logger, mailEnabled bool, signInURL string) *Service {
	return &Service{
		Repo:        r,
		Sessions:    sessions,
		GCS:         gcs,
		GCSBucket:   gcsBucket,
		Pub:         pub,
		Logger:      logger,
		MailEnabled: mailEnabled,
		SignInURL:   signInURL,
	}
}

// NormalizeEmail applies the normalization used for both lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate validates an email/password pair against the store. Each call is
// a single attempt; rate limiting lives in the middleware layer. On success the
// returned user carries no password hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmailFormat
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoAccountFound
		}
		s.logError("credential lookup failed", err, logrus.Fields{"email": NormalizeEmail(email)})
		return nil, ErrAuthUnavailable
	}
	// Social-only accounts have no hash and cannot sign in with credentials.
	if !u.HasPassword() {
		return nil, ErrNoAccountFound
	}
	if !helpers.CheckPassword(*u.HashedPassword, password) {
		return nil, ErrInvalidPassword
	}

	u.HashedPassword = nil
	return u, nil
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
}

// Register creates a credential account. The username and email pre-checks give
// deterministic, specific errors; the unique constraints at insert time remain
// the final arbiter when two registrations race past them.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if _, err := s.Repo.GetByUsername(ctx, in.Username); err == nil {
		return nil, repo.ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		s.logError("username pre-check failed", err, logrus.Fields{"username": in.Username})
		return nil, ErrRegistrationUnavailable
	}

	email := NormalizeEmail(in.Email)
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, repo.ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		s.logError("email pre-check failed", err, logrus.Fields{"email": email})
		return nil, ErrRegistrationUnavailable
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		s.logError("password hashing failed", err, nil)
		return nil, ErrRegistrationUnavailable
	}

	u := &entity.User{
		Username:       in.Username,
		Email:          email,
		HashedPassword: &hash,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrUsernameTaken) || errors.Is(err, repo.ErrEmailTaken) {
			return nil, err
		}
		s.logError("user insert failed", err, logrus.Fields{"email": email})
		return nil, ErrRegistrationUnavailable
	}

	s.enqueueWelcomeEmail(ctx, u)

	u.HashedPassword = nil
	return u, nil
}

// enqueueWelcomeEmail is best effort; a broker outage never fails registration.
func (s *Service) enqueueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: "welcome",
		Data: map[string]any{
			"Username":  u.Username,
			"SignInURL": s.SignInURL,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Warn("welcome email enqueue failed")
	}
}

func (s *Service) logError(msg string, err error, fields logrus.Fields) {
	if s.Logger == nil {
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	s.Logger.WithError(err).WithFields(fields).Error(msg)
}
