package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/repository"
	"github.com/fastygo/careflow/usecase"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) (bool, error)
}

// Session is the result of a successful signup or login.
type Session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Limits configures the failed-login limiter. A nil attempt repository or a
// zero MaxFailures disables it.
type Limits struct {
	MaxFailures int
}

type UseCase struct {
	users    repository.UserRepository
	attempts repository.AttemptRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	activity usecase.ActivityRecorder
	limits   Limits
	logger   *zap.Logger
}

func New(
	users repository.UserRepository,
	attempts repository.AttemptRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	activity usecase.ActivityRecorder,
	limits Limits,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		attempts: attempts,
		hasher:   hasher,
		tokens:   tokens,
		activity: activity,
		limits:   limits,
		logger:   logger,
	}
}

func (uc *UseCase) Signup(ctx context.Context, email, password string) (*Session, error) {
	if !domain.ValidEmail(email) {
		return nil, domain.Invalid("a valid email address is required")
	}
	if !domain.ValidPassword(password) {
		return nil, domain.Invalid("password must be at least 8 characters")
	}

	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}

	user := &domain.User{Email: email, PasswordHash: hash}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	usecase.RecordActivity(ctx, uc.activity, uc.logger, domain.EntityUser, domain.ActionCreate, user.ID, user.ID)
	return uc.session(user)
}

func (uc *UseCase) Login(ctx context.Context, email, password string) (*Session, error) {
	if !domain.ValidEmail(email) || password == "" {
		return nil, domain.Invalid("email and password are required")
	}

	key := strings.ToLower(email)
	if uc.lockedOut(ctx, key) {
		uc.logger.Warn("login rejected: too many failed attempts", zap.String("email", email))
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			uc.logger.Info("login failed: unknown email", zap.String("email", email))
			uc.recordFailure(ctx, key)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := uc.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to verify password", err)
	}
	if !ok {
		uc.logger.Info("login failed: password mismatch", zap.String("user_id", user.ID))
		uc.recordFailure(ctx, key)
		return nil, domain.ErrInvalidCredentials
	}

	uc.resetFailures(ctx, key)
	return uc.session(user)
}

func (uc *UseCase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.Invalid("current and new password are required")
	}
	if !domain.ValidPassword(newPassword) {
		return domain.Invalid("new password must be at least 8 characters")
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := uc.hasher.Compare(user.PasswordHash, currentPassword)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "failed to verify password", err)
	}
	if !ok {
		return domain.ErrWrongCurrentPassword
	}

	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}
	if err := uc.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	usecase.RecordActivity(ctx, uc.activity, uc.logger, domain.EntityUser, domain.ActionPassword, user.ID, user.ID)
	return nil
}

func (uc *UseCase) Me(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

func (uc *UseCase) session(user *domain.User) (*Session, error) {
	token, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to issue token", err)
	}
	return &Session{User: user, Token: token}, nil
}

func (uc *UseCase) limiterEnabled() bool {
	return uc.attempts != nil && uc.limits.MaxFailures > 0
}

// lockedOut fails open: a limiter error never blocks a login.
func (uc *UseCase) lockedOut(ctx context.Context, key string) bool {
	if !uc.limiterEnabled() {
		return false
	}
	failures, err := uc.attempts.Failures(ctx, key)
	if err != nil {
		uc.logger.Warn("login limiter unavailable", zap.Error(err))
		return false
	}
	return failures >= uc.limits.MaxFailures
}

func (uc *UseCase) recordFailure(ctx context.Context, key string) {
	if !uc.limiterEnabled() {
		return
	}
	if _, err := uc.attempts.RecordFailure(ctx, key); err != nil {
		uc.logger.Warn("failed to record login failure", zap.Error(err))
	}
}

func (uc *UseCase) resetFailures(ctx context.Context, key string) {
	if !uc.limiterEnabled() {
		return
	}
	if err := uc.attempts.Reset(ctx, key); err != nil {
		uc.logger.Warn("failed to reset login failures", zap.Error(err))
	}
}
