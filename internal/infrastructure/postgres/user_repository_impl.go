package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mindgrid-app/mindgrid-api/internal/domain/entity"
	"github.com/mindgrid-app/mindgrid-api/internal/domain/repository"
)

// DB is the subset of pgxpool.Pool the repository needs. Kept small so tests
// can substitute pgxmock.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	id, username, email, hashed_password,
	COALESCE(name, ''), COALESCE(surname, ''), COALESCE(image, ''),
	COALESCE(company, ''), COALESCE(role, ''), COALESCE(interests, '{}'),
	COALESCE(experience, ''), email_notifications, push_notifications,
	weekly_digest, COALESCE(bio, ''), COALESCE(timezone, ''),
	completed_onboarding, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword,
		&u.Name, &u.Surname, &u.Image,
		&u.Company, &u.Role, &u.Interests,
		&u.Experience, &u.EmailNotifications, &u.PushNotifications,
		&u.WeeklyDigest, &u.Bio, &u.Timezone,
		&u.CompletedOnboarding, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// translateUnique maps a unique-constraint violation onto the conflict error
// for the column it protects. The constraints are the final arbiter for
// concurrent registrations that both pass the pre-checks.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return repository.ErrUsernameTaken
		case "users_email_key":
			return repository.ErrEmailTaken
		}
	}
	return err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, hashed_password, name, image)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.HashedPassword, u.Name, u.Image)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return translateUnique(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1
	`, username))
}

// UpdateOnboarding persists the wizard payload and flips the onboarding flag.
func (r *UserRepository) UpdateOnboarding(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET name = NULLIF($1, ''), surname = NULLIF($2, ''), image = NULLIF($3, ''),
		    company = NULLIF($4, ''), role = NULLIF($5, ''), interests = $6,
		    experience = NULLIF($7, ''), email_notifications = $8,
		    push_notifications = $9, weekly_digest = $10, bio = NULLIF($11, ''),
		    timezone = NULLIF($12, ''), completed_onboarding = $13, updated_at = $14
		WHERE id = $15
	`, u.Name, u.Surname, u.Image, u.Company, u.Role, u.Interests,
		u.Experience, u.EmailNotifications, u.PushNotifications, u.WeeklyDigest,
		u.Bio, u.Timezone, u.CompletedOnboarding, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateImage(ctx context.Context, id, imageURL string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET image = NULLIF($1, ''), updated_at = $2
		WHERE id = $3
	`, imageURL, time.Now(), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
