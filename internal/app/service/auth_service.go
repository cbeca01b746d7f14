package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"baseline_academy/internal/common"
	"baseline_academy/internal/common/security"
	"baseline_academy/internal/domain/model"
	"baseline_academy/internal/domain/repository"
	"baseline_academy/internal/platform/logging"
	"baseline_academy/internal/platform/metrics"
)

// LoginLimiter tracks failed logins per username.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type AuthService struct {
	userRepo  repository.UserRepository
	hasher    *security.PasswordHasher
	tokens    *security.TokenCodec
	limiter   LoginLimiter
	metrics   *metrics.Metrics
	logger    *slog.Logger
	dummyHash string
}

type AuthOption func(*AuthService)

// WithLimiter enables lockout after repeated failed logins.
func WithLimiter(l LoginLimiter) AuthOption {
	return func(s *AuthService) { s.limiter = l }
}

func WithMetrics(m *metrics.Metrics) AuthOption {
	return func(s *AuthService) { s.metrics = m }
}

func WithLogger(l *slog.Logger) AuthOption {
	return func(s *AuthService) { s.logger = l }
}

func NewAuthService(userRepo repository.UserRepository, hasher *security.PasswordHasher, tokens *security.TokenCodec, opts ...AuthOption) *AuthService {
	s := &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Unknown usernames are compared against this so they cost as much as a wrong password.
	s.dummyHash = AdminPasswordHash
	if h, err := hasher.Hash("baseline-academy-dummy"); err == nil {
		s.dummyHash = h
	}
	return s
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type AuthResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.NewError(common.ErrMissingField, "Username and password are required")
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, req.Username)
		if err != nil {
			// Throttling is best effort; a Redis outage must not lock everyone out.
			logging.LogError(s.logger, "login limiter unavailable", err)
		} else if !allowed {
			s.metrics.RecordAuth("login", metrics.OutcomeRateLimited)
			return nil, common.ErrTooManyAttempts
		}
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, common.ErrUserNotFound) {
		s.metrics.RecordAuth("login", metrics.OutcomeError)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	hash := s.dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	match, err := s.hasher.Compare(hash, req.Password)
	if err != nil {
		s.metrics.RecordAuth("login", metrics.OutcomeError)
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if user == nil || !match {
		s.recordFailure(ctx, req.Username)
		s.metrics.RecordAuth("login", metrics.OutcomeFailure)
		return nil, common.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, req.Username); err != nil {
			logging.LogError(s.logger, "resetting login failures", err)
		}
	}

	return s.issue("login", user)
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" || req.Email == "" || req.Role == "" {
		return nil, common.NewError(common.ErrMissingField, "All fields are required")
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return nil, common.NewError(common.ErrValidation, "Invalid role")
	}

	// Pre-checks give the documented precedence; Insert enforces uniqueness atomically.
	if err := s.ensureAbsent(ctx, s.userRepo.FindByUsername, req.Username, common.ErrDuplicateUsername); err != nil {
		return nil, err
	}
	if err := s.ensureAbsent(ctx, s.userRepo.FindByEmail, req.Email, common.ErrDuplicateEmail); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.metrics.RecordAuth("register", metrics.OutcomeError)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Insert(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) || errors.Is(err, common.ErrDuplicateEmail) {
			s.metrics.RecordAuth("register", metrics.OutcomeFailure)
			return nil, err
		}
		s.metrics.RecordAuth("register", metrics.OutcomeError)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return s.issue("register", user)
}

// ValidateSession verifies token and returns the user as currently stored,
// so role or email changes since issuance are reflected.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*model.PublicUser, error) {
	claims, err := s.tokens.Verify(ctx, token)
	if err != nil {
		s.metrics.RecordAuth("validate", metrics.OutcomeFailure)
		return nil, err
	}
	user, err := s.currentUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAuth("validate", metrics.OutcomeSuccess)
	pub := user.Public()
	return &pub, nil
}

// CurrentUser resolves the claims decoded by the jwtauth verifier middleware.
func (s *AuthService) CurrentUser(ctx context.Context, claims map[string]interface{}) (*model.User, error) {
	c, err := security.ClaimsFromMap(claims)
	if err != nil {
		return nil, err
	}
	return s.currentUser(ctx, c.UserID)
}

// ChangeRole sets a user's role. Existing tokens pick it up on their next request.
func (s *AuthService) ChangeRole(ctx context.Context, userID int64, roleName string) (*model.PublicUser, error) {
	role, ok := model.ParseRole(roleName)
	if !ok {
		return nil, common.NewError(common.ErrValidation, "Invalid role")
	}
	user, err := s.userRepo.UpdateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.NewError(common.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	s.logger.InfoContext(ctx, "user role changed", "user_id", userID, "role", role)
	pub := user.Public()
	return &pub, nil
}

func (s *AuthService) currentUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			s.metrics.RecordAuth("validate", metrics.OutcomeFailure)
			return nil, common.ErrUserNotFound
		}
		s.metrics.RecordAuth("validate", metrics.OutcomeError)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *AuthService) ensureAbsent(ctx context.Context, find func(context.Context, string) (*model.User, error), value string, dup error) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		s.metrics.RecordAuth("register", metrics.OutcomeFailure)
		return dup
	case errors.Is(err, common.ErrUserNotFound):
		return nil
	default:
		s.metrics.RecordAuth("register", metrics.OutcomeError)
		return fmt.Errorf("failed to check existing user: %w", err)
	}
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		logging.LogError(s.logger, "recording login failure", err)
	}
}

func (s *AuthService) issue(operation string, user *model.User) (*AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Username, string(user.Role))
	if err != nil {
		s.metrics.RecordAuth(operation, metrics.OutcomeError)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	s.metrics.RecordAuth(operation, metrics.OutcomeSuccess)
	return &AuthResponse{Token: token, User: user.Public()}, nil
}
