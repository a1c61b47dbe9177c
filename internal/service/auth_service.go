package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/notifications"
	"agora/internal/observability"
	"agora/internal/repository"
	"agora/internal/validation"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const DefaultPasswordResetTTL = time.Hour

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *models.User
	Token string
}

type AuthService struct {
	users    repository.UserRepository
	tokens   *middleware.TokenManager
	rdb      *redis.Client
	mailer   notifications.Mailer
	resetTTL time.Duration
	now      func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	tokens *middleware.TokenManager,
	rdb *redis.Client,
	mailer notifications.Mailer,
	resetTTL time.Duration,
) *AuthService {
	if resetTTL <= 0 {
		resetTTL = DefaultPasswordResetTTL
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		rdb:      rdb,
		mailer:   mailer,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (res *AuthResult, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "AuthService", "Register")
	defer func() {
		observability.EndSpan(span, err)
		observability.AuthEvents.WithLabelValues("register", outcomeLabel(err)).Inc()
	}()

	if missing := validation.MissingFields([][2]string{
		{"name", in.Name},
		{"email", in.Email},
		{"password", in.Password},
	}); len(missing) > 0 {
		return nil, models.NewMissingFieldsError(missing)
	}

	name := strings.TrimSpace(in.Name)
	email := validation.NormalizeEmail(in.Email)
	if err := validation.ValidateName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Name: name, Email: email, Password: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, _, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (res *AuthResult, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "AuthService", "Login")
	defer func() {
		observability.EndSpan(span, err)
		observability.AuthEvents.WithLabelValues("login", outcomeLabel(err)).Inc()
	}()

	if missing := validation.MissingFields([][2]string{
		{"email", in.Email},
		{"password", in.Password},
	}); len(missing) > 0 {
		return nil, models.NewMissingFieldsError(missing)
	}

	user, err := s.users.GetByEmail(ctx, validation.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	token, _, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *middleware.Claims) error {
	if err := middleware.RevokeToken(ctx, s.rdb, claims); err != nil {
		return models.NewInternalError(err)
	}
	observability.AuthEvents.WithLabelValues("logout", "ok").Inc()
	return nil
}

// ForgotPassword issues a reset token when email belongs to an active user.
// Unknown addresses succeed silently so accounts cannot be enumerated.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return models.NewMissingFieldsError([]string{"email"})
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		middleware.Logger.InfoContext(ctx, "password reset requested for unknown email")
		return nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return models.NewInternalError(err)
	}
	token := hex.EncodeToString(raw)
	expires := s.now().Add(s.resetTTL)

	if err := s.users.SetResetToken(ctx, user.ID, hashResetToken(token), expires); err != nil {
		return err
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, token, expires); err != nil {
		middleware.Logger.ErrorContext(ctx, "password reset e-mail failed", "user_id", user.ID, "error", err)
	}
	observability.AuthEvents.WithLabelValues("forgot_password", "ok").Inc()
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if missing := validation.MissingFields([][2]string{
		{"token", token},
		{"password", password},
	}); len(missing) > 0 {
		return models.NewMissingFieldsError(missing)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return models.NewValidationError(err.Error())
	}

	user, err := s.users.GetByResetToken(ctx, hashResetToken(strings.TrimSpace(token)), s.now())
	if err != nil {
		return err
	}
	if user == nil {
		observability.AuthEvents.WithLabelValues("reset_password", "error").Inc()
		return models.NewValidationError("Invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	observability.AuthEvents.WithLabelValues("reset_password", "ok").Inc()
	return nil
}

// hashResetToken is what gets stored; the raw token only travels by e-mail.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
