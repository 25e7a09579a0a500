package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"burnout-assess/internal/domain"
	"burnout-assess/internal/repository"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	createErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, taken := m.usersByEmail[user.Email]; taken {
		return repository.ErrConflict
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return m.GetByID(ctx, id)
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool { return false }

func TestUserService_CreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), nil)

	user, err := svc.CreateUser(ctx, CreateUserInput{Email: " Ana@Example.com ", DisplayName: " Ana ", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "ana@example.com" || user.DisplayName != "Ana" {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.PasswordHash == "" || user.PasswordHash == "correct-horse" {
		t.Fatalf("password must be hashed")
	}

	got, err := svc.Authenticate(ctx, "ANA@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected same user id")
	}

	if _, err := svc.Authenticate(ctx, "ana@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUserService_CreateUserValidation(t *testing.T) {
	ctx := context.Background()
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, nil)

	tests := []struct {
		name    string
		input   CreateUserInput
		wantErr error
	}{
		{name: "invalid email", input: CreateUserInput{Email: "not-an-email", Password: "longenough"}, wantErr: ErrInvalidEmail},
		{name: "empty email", input: CreateUserInput{Password: "longenough"}, wantErr: ErrInvalidEmail},
		{name: "short password", input: CreateUserInput{Email: "a@example.com", Password: "short"}, wantErr: ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateUser(ctx, tt.input); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := svc.CreateUser(ctx, CreateUserInput{Email: "dup@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := svc.CreateUser(ctx, CreateUserInput{Email: "DUP@example.com", Password: "longenough"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_AuthenticateRateLimited(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), denyLimiter{})
	if _, err := svc.Authenticate(context.Background(), "a@example.com", "whatever1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestUserService_NotConfigured(t *testing.T) {
	var svc *UserService
	if _, err := svc.CreateUser(context.Background(), CreateUserInput{}); !errors.Is(err, ErrUserServiceNotConfigured) {
		t.Fatalf("expected ErrUserServiceNotConfigured, got %v", err)
	}
}
