package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gamehub/apperrors"
	"gamehub/models"
)

type fakeUserStore struct {
	users  map[uint]models.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint]models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user models.User) (models.User, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return models.User{}, fmt.Errorf("email %q: %w", user.Email, apperrors.ErrAlreadyExists)
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) ByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %q: %w", email, apperrors.ErrNotFound)
}

func (f *fakeUserStore) ByID(_ context.Context, id uint) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
	}
	return u, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uint, hashed string) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
	}
	u.Password = hashed
	f.users[id] = u
	return nil
}

type fakeTokenCache struct {
	values map[string]string
}

func newFakeTokenCache() *fakeTokenCache {
	return &fakeTokenCache{values: map[string]string{}}
}

func (f *fakeTokenCache) SetString(_ context.Context, key, value string, _ time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeTokenCache) GetString(_ context.Context, key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeTokenCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

type fakeMailer struct {
	sent []string // "to:token"
}

func (f *fakeMailer) SendPasswordReset(to, token string) error {
	f.sent = append(f.sent, to+":"+token)
	return nil
}

func newAuthFixture() (*AuthService, *fakeUserStore, *fakeTokenCache, *fakeMailer) {
	users := newFakeUserStore()
	tokens := newFakeTokenCache()
	mailer := &fakeMailer{}
	svc := NewAuthService(users, tokens, mailer, "test-secret", testLogger())
	return svc, users, tokens, mailer
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("register hashes the password", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture()

		user, err := svc.Register(ctx, models.RegisterInput{
			Name: "Alice", Email: "alice@example.com", Password: "hunter22",
		})
		require.NoError(t, err)
		stored := users.users[user.ID]
		assert.NotEqual(t, "hunter22", stored.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter22")))
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()

		_, err := svc.Register(ctx, models.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "hunter22"})
		require.NoError(t, err)
		_, err = svc.Register(ctx, models.RegisterInput{Name: "Bob", Email: "a@example.com", Password: "hunter23"})
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	})

	t.Run("login issues a parseable token", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()

		user, err := svc.Register(ctx, models.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "hunter22"})
		require.NoError(t, err)

		token, _, err := svc.Login(ctx, models.LoginInput{Email: "a@example.com", Password: "hunter22"})
		require.NoError(t, err)

		id, err := svc.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})

	t.Run("wrong password and unknown email both fail the same way", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()

		_, err := svc.Register(ctx, models.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "hunter22"})
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, models.LoginInput{Email: "a@example.com", Password: "wrong-pass"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

		_, _, err = svc.Login(ctx, models.LoginInput{Email: "nobody@example.com", Password: "hunter22"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()
		_, err := svc.ParseToken("not.a.jwt")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("password reset round trip", func(t *testing.T) {
		svc, _, tokens, mailer := newAuthFixture()

		_, err := svc.Register(ctx, models.RegisterInput{Name: "Alice", Email: "a@example.com", Password: "hunter22"})
		require.NoError(t, err)

		require.NoError(t, svc.RequestPasswordReset(ctx, "a@example.com"))
		require.Len(t, mailer.sent, 1)
		token := strings.SplitN(mailer.sent[0], ":", 2)[1]

		require.NoError(t, svc.ResetPassword(ctx, token, "new-password"))

		_, _, err = svc.Login(ctx, models.LoginInput{Email: "a@example.com", Password: "new-password"})
		require.NoError(t, err)

		// token is single use
		assert.Empty(t, tokens.values)
		err = svc.ResetPassword(ctx, token, "another-password")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("unknown email does not leak and sends nothing", func(t *testing.T) {
		svc, _, _, mailer := newAuthFixture()
		require.NoError(t, svc.RequestPasswordReset(ctx, "ghost@example.com"))
		assert.Empty(t, mailer.sent)
	})
}
