package users

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/hairbystephanie/site/backend/go-services/internal/models"
	"github.com/hairbystephanie/site/backend/go-services/pkg/logger"
)

// ErrInvalidCredentials covers unknown users, wrong passwords and inactive
// accounts alike.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// checkPassword is swapped in tests to observe comparisons.
var checkPassword = CheckPassword

// dummyHash is compared against when there is no usable account so that
// unknown and inactive users cost one bcrypt comparison like everyone else.
var dummyHash = sync.OnceValue(func() string {
	h, err := HashPassword("no-such-user")
	if err != nil {
		logger.Errorf("hash dummy password: %v", err)
	}
	return h
})

// Authenticate checks a username/password pair against the stored hash.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil || !u.Active {
		checkPassword(dummyHash(), password)
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// SeedAdmins creates every listed admin that does not exist yet. Existing
// users keep their stored password. Returns the number created.
func (s *Service) SeedAdmins(ctx context.Context, admins map[string]string) (int, error) {
	names := make([]string, 0, len(admins))
	for name := range admins {
		names = append(names, name)
	}
	sort.Strings(names)

	created := 0
	for _, name := range names {
		existing, err := s.repo.GetByUsername(ctx, name)
		if err != nil {
			return created, fmt.Errorf("lookup %s: %w", name, err)
		}
		if existing != nil {
			continue
		}
		hash, err := HashPassword(admins[name])
		if err != nil {
			return created, fmt.Errorf("hash password for %s: %w", name, err)
		}
		u := &models.User{ID: uuid.NewString(), Username: name, PasswordHash: hash, Active: true}
		if err := s.repo.Create(ctx, u); err != nil {
			if errors.Is(err, ErrUserExists) {
				continue
			}
			return created, fmt.Errorf("create %s: %w", name, err)
		}
		logger.Infof("seeded admin user %s", name)
		created++
	}
	return created, nil
}
