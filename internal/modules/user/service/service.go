package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"anoa.com/unimanage/internal/auth"
	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/internal/modules/user/dto"
	"anoa.com/unimanage/internal/modules/user/repository"
	"anoa.com/unimanage/pkg/apperror"
	"anoa.com/unimanage/pkg/password"
	"anoa.com/unimanage/pkg/ratelimiter"
	"github.com/google/uuid"
)

var errInvalidCredentials = apperror.Unauthorized("Invalid credentials")

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserSummary, error)
}

type authService struct {
	repo        repository.UserRepository
	issuer      *auth.TokenIssuer
	limiter     *ratelimiter.Limiter
	loginWindow time.Duration

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(repo repository.UserRepository, issuer *auth.TokenIssuer, limiter *ratelimiter.Limiter, loginWindow time.Duration) AuthService {
	return &authService{
		repo:        repo,
		issuer:      issuer,
		limiter:     limiter,
		loginWindow: loginWindow,
	}
}

// NormalizeEmail trims and lowercases; identities are unique case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, apperror.Validation("Name, email and password are required")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("Email already registered")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	requestedRole := entity.RoleStudent
	if input.RequestedRole == entity.RoleTeacher {
		requestedRole = entity.RoleTeacher
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:            name,
		Email:           email,
		PasswordHash:    hash,
		Role:            entity.RoleStudent,
		InstitutionalID: strings.TrimSpace(input.InstitutionalID),
		RequestedRole:   requestedRole,
		Status:          entity.StatusPending,
	}

	// The unique index still rejects a concurrent registration of the same email.
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		ID:      user.ID,
		Email:   user.Email,
		Status:  user.Status,
		Message: dto.RegisteredMessage,
	}, nil
}

// loginSubject keys the login cooldown on the email and the calling client.
func loginSubject(email, clientIP string) string {
	if clientIP == "" {
		return email
	}
	return email + "|" + clientIP
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, apperror.Validation("Email and password are required")
	}

	subject := loginSubject(email, input.ClientIP)
	allowed, err := s.limiter.Allow(ctx, "login", subject, s.loginWindow)
	if err != nil {
		log.Printf("[Auth] rate limiter unavailable: %v", err)
	} else if !allowed {
		return nil, apperror.Wrap(apperror.ErrRateLimitExceeded, "Too many login attempts, please wait and try again")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.burnCompare(input.Password)
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	ok, err := password.Compare(user.PasswordHash, input.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errInvalidCredentials
	}

	switch user.Status {
	case entity.StatusApproved:
	case entity.StatusPending:
		return nil, apperror.Forbidden("Account pending approval by admin")
	case entity.StatusRejected:
		reason := user.RejectionReason
		if reason == "" {
			reason = "account rejected"
		}
		return nil, apperror.Forbidden("Login blocked: " + reason)
	default:
		return nil, apperror.Forbidden("Account is not approved")
	}

	token, expiresAt, err := s.issuer.Issue(user.ID, user.Role, user.Name)
	if err != nil {
		return nil, err
	}

	_ = s.limiter.Clear(ctx, "login", subject)

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User: dto.SessionUser{
			ID:    user.ID,
			Name:  user.Name,
			Role:  user.Role,
			Email: user.Email,
		},
	}, nil
}

// burnCompare spends one bcrypt comparison so unknown emails take as long as wrong passwords.
func (s *authService) burnCompare(plain string) {
	s.dummyOnce.Do(func() {
		hash, err := password.Hash("unimanage-timing-equalizer")
		if err != nil {
			log.Printf("[Auth] failed to prepare dummy hash: %v", err)
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = password.Compare(s.dummyHash, plain)
	}
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserSummary, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := dto.NewUserSummary(user)
	return &summary, nil
}
