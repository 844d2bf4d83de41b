package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/varshinivarma16/booksbackend/internal/models"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields = errors.New("Username, email, and password are required")
	ErrInvalidRole   = errors.New("Invalid role")
	ErrUserNotFound  = errors.New("User not found")
	ErrWrongPassword = errors.New("Incorrect password")
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
	cost int
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

// Signup registers a new account. The role must be given explicitly.
func (s *Service) Signup(ctx context.Context, username, email, password, role string) (*models.User, error) {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	exists, err := s.repo.Exists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &models.User{Username: username, Email: email, Password: string(hash), Role: role, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks email and password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

// Get looks a user up by hex id. Unknown or malformed ids give ErrUserNotFound.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) UpdateRole(ctx context.Context, id, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.repo.UpdateRole(ctx, oid, role)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpsertFromClaims records a user authenticated by the external identity
// provider. New accounts get the student role.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, nil
	}
	email, _ := claims["email"].(string)
	name, _ := claims["preferred_username"].(string)
	if name == "" {
		name, _ = claims["name"].(string)
	}
	if name == "" {
		name = sub
	}
	return s.repo.UpsertBySub(ctx, &models.User{Sub: sub, Email: email, Username: name, Role: models.RoleStudent})
}

var demoUsers = []struct{ username, email, password, role string }{
	{"student1", "student1@example.com", "1234", models.RoleStudent},
	{"faculty1", "faculty1@example.com", "abcd", models.RoleFaculty},
	{"admin1", "admin1@example.com", "admin123", models.RoleAdmin},
}

// Seed creates the demo accounts when no user exists yet.
func (s *Service) Seed(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, d := range demoUsers {
		if _, err := s.Signup(ctx, d.username, d.email, d.password, d.role); err != nil {
			return err
		}
	}
	logger.Infof("seeded %d demo users", len(demoUsers))
	return nil
}
