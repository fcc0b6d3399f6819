package application

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/mindgrid-app/mindgrid-api/internal/domain/entity"
	repo "github.com/mindgrid-app/mindgrid-api/internal/domain/repository"
)

// fakeRepo is an in-memory UserRepository enforcing the same uniqueness rules
// as the real store. failWith, when set, makes every call fail to exercise the
// unavailable paths.
type fakeRepo struct {
	mu       sync.Mutex
	users    map[string]*entity.User // by id
	nextID   int
	failWith error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*entity.User{}}
}

func clone(u *entity.User) *entity.User {
	cp := *u
	if u.HashedPassword != nil {
		h := *u.HashedPassword
		cp.HashedPassword = &h
	}
	cp.Interests = append([]string(nil), u.Interests...)
	return &cp
}

func (f *fakeRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	for _, ex := range f.users {
		if ex.Username == u.Username {
			return repo.ErrUsernameTaken
		}
		if ex.Email == u.Email {
			return repo.ErrEmailTaken
		}
	}
	f.nextID++
	u.ID = "user-" + strconv.Itoa(f.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = clone(u)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if u, ok := f.users[id]; ok {
		return clone(u), nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Username == username {
			return clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) UpdateOnboarding(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	f.users[u.ID] = clone(u)
	return nil
}

func (f *fakeRepo) UpdateImage(_ context.Context, id, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Image = imageURL
	return nil
}

var _ repo.UserRepository = (*fakeRepo)(nil)
