package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"gamehub/apperrors"
	"gamehub/cache"
	"gamehub/models"
	"gamehub/monitoring"
)

// UserStore is the slice of the user repository the service needs.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	ByEmail(ctx context.Context, email string) (models.User, error)
	ByID(ctx context.Context, id uint) (models.User, error)
	UpdatePassword(ctx context.Context, id uint, hashed string) error
}

// TokenCache stores password-reset tokens with expiry.
type TokenCache interface {
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// MailSender delivers the password-recovery mail.
type MailSender interface {
	SendPasswordReset(to, token string) error
}

type AuthService struct {
	users  UserStore
	tokens TokenCache
	mailer MailSender
	secret []byte
	log    *logrus.Logger
}

func NewAuthService(users UserStore, tokens TokenCache, mailer MailSender, jwtSecret string, log *logrus.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		secret: []byte(jwtSecret),
		log:    log,
	}
}

// Register creates a reviewer account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, input models.RegisterInput) (models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:    input.Email,
		Password: string(hashed),
		Name:     input.Name,
		Role:     "user",
	}
	return s.users.Create(ctx, user)
}

// Login verifies the credentials and issues a signed JWT valid for 24h.
func (s *AuthService) Login(ctx context.Context, input models.LoginInput) (string, models.User, error) {
	user, err := s.users.ByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			monitoring.AuthAttemptsTotal.WithLabelValues("failure").Inc()
			return "", models.User{}, apperrors.ErrInvalidCredentials
		}
		return "", models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		monitoring.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		return "", models.User{}, apperrors.ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", models.User{}, fmt.Errorf("sign token: %w", err)
	}

	monitoring.AuthAttemptsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

// ParseToken validates a JWT and returns the user id it names.
func (s *AuthService) ParseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, apperrors.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, apperrors.ErrInvalidCredentials
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, apperrors.ErrInvalidCredentials
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, apperrors.ErrInvalidCredentials
	}
	return uint(id), nil
}

// UserByID loads the user behind a parsed token.
func (s *AuthService) UserByID(ctx context.Context, id uint) (models.User, error) {
	return s.users.ByID(ctx, id)
}

// RequestPasswordReset mails a one-time token to the user. An unknown
// email is reported as success to the caller so the endpoint cannot be
// used to probe for accounts; only the log records the miss.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.log.WithField("email", email).Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	key := cache.ResetTokenPrefix + token
	userID := strconv.FormatUint(uint64(user.ID), 10)
	if err := s.tokens.SetString(ctx, key, userID, cache.ResetTTL); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(user.Email, token); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	key := cache.ResetTokenPrefix + token
	userID, found, err := s.tokens.GetString(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("reset token: %w", apperrors.ErrNotFound)
	}

	id, err := strconv.ParseUint(userID, 10, 32)
	if err != nil {
		return fmt.Errorf("reset token payload: %w", apperrors.ErrNotFound)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, uint(id), string(hashed)); err != nil {
		return err
	}

	if err := s.tokens.Delete(ctx, key); err != nil {
		s.log.WithError(err).Warn("failed to drop used reset token")
	}
	return nil
}
