package auth

import (
	"context"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	resetTokenTTL  = time.Hour
)

type UserRepository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.User, error)
}

// SessionInvalidator forgets a cached session user.
type SessionInvalidator interface {
	Invalidate(id uuid.UUID)
}

type Options struct {
	JWTSecret  string
	TokenTTL   time.Duration
	AppBaseURL string
}

type Service struct {
	users    UserRepository
	tokens   *TokenStore
	notifier Notifier
	sessions SessionInvalidator
	opts     Options
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewService(users UserRepository, tokens *TokenStore, notifier Notifier, sessions SessionInvalidator, opts Options, log logrus.FieldLogger) *Service {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		sessions: sessions,
		opts:     opts,
		log:      log.WithField("component", "auth"),
		now:      time.Now,
	}
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type SignInResult struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *session.User `json:"user"`
}

var errBadCredentials = apperr.Auth("invalid email or password")

func normalizeEmail(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	u, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.IsReason(err, apperr.ReasonNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	if !u.EmailVerified {
		return nil, apperr.Auth("email address is not verified yet")
	}

	token, claims, err := GenerateToken(s.opts.JWTSecret, u, s.opts.TokenTTL, s.now())
	if err != nil {
		return nil, err
	}
	return &SignInResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: session.FromModel(u)}, nil
}

// SignUp creates a staff identity that stays pending until the email
// address is verified.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("email %q is not valid", req.Email)
	}
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperr.Auth("an account with this email already exists")
	} else if !apperr.IsReason(err, apperr.ReasonNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Persistence(err, "could not hash password")
	}

	u := &models.User{
		Name:              name,
		Email:             email,
		Phone:             strings.TrimSpace(req.Phone),
		PasswordHash:      string(hash),
		Role:              models.RoleStaff,
		VerificationToken: NewOpaqueToken(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if apperr.IsReason(err, apperr.ReasonConflict) {
			return nil, apperr.Auth("an account with this email already exists")
		}
		return nil, err
	}

	if err := s.notifier.SendVerification(ctx, u, s.link("/verify-email", u.VerificationToken)); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("verification notice not sent")
	}
	return u, nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperr.Auth("verification link is invalid or expired")
	}
	u, err := s.users.GetUserByVerificationToken(ctx, token)
	if err != nil {
		if apperr.IsReason(err, apperr.ReasonNotFound) {
			return apperr.Auth("verification link is invalid or expired")
		}
		return err
	}
	_, err = s.users.UpdateUser(ctx, u.ID, map[string]any{
		"email_verified":     true,
		"verification_token": "",
	})
	return err
}

// SignOut revokes the presented token for the rest of its lifetime.
func (s *Service) SignOut(ctx context.Context, claims *JWTCustomClaims) error {
	if claims == nil {
		return apperr.Auth("sign-in required")
	}
	if err := s.tokens.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperr.Persistence(err, "could not sign out")
	}
	return nil
}

// RequestPasswordReset never reveals whether the address exists.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.IsReason(err, apperr.ReasonNotFound) {
			return nil
		}
		return err
	}
	token, err := s.tokens.IssueReset(ctx, u.ID, resetTokenTTL)
	if err != nil {
		return apperr.Persistence(err, "could not start password reset")
	}
	if err := s.notifier.SendPasswordReset(ctx, u, s.link("/reset-password", token)); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("reset notice not sent")
	}
	return nil
}

// ConfirmPasswordReset sets a new password. Completing a reset also
// proves ownership of the address, so the account counts as verified.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	if err := checkPassword(password); err != nil {
		return err
	}
	userID, ok, err := s.tokens.ConsumeReset(ctx, strings.TrimSpace(token))
	if err != nil {
		return apperr.Persistence(err, "could not read reset token")
	}
	if !ok {
		return apperr.Auth("reset link is invalid or expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Persistence(err, "could not hash password")
	}
	if _, err := s.users.UpdateUser(ctx, userID, map[string]any{
		"password_hash":      string(hash),
		"email_verified":     true,
		"verification_token": "",
	}); err != nil {
		return err
	}
	s.sessions.Invalidate(userID)
	return nil
}

func (s *Service) link(path, token string) string {
	return strings.TrimRight(s.opts.AppBaseURL, "/") + path + "?token=" + url.QueryEscape(token)
}

func checkPassword(p string) error {
	if len(p) < minPasswordLen {
		return apperr.Validation("password must be at least %d characters", minPasswordLen)
	}
	return nil
}
