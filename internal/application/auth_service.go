package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/inventory-order-api/config"
	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	repo "github.com/oksasatya/inventory-order-api/internal/domain/repository"
	"github.com/oksasatya/inventory-order-api/pkg/helpers"
)

const minPasswordLen = 8

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Session is the outcome of a login or refresh.
type Session struct {
	User   *entity.User
	Tokens TokenPair
}

type AuthService struct {
	Users        repo.UserRepository
	Verification *VerificationService
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Audit        *AuditService
	Cfg          *config.Config
	Logger       *logrus.Logger
}

func NewAuthService(users repo.UserRepository, verification *VerificationService, jwt *helpers.JWTManager, rdb *redis.Client, audit *AuditService, cfg *config.Config, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:        users,
		Verification: verification,
		JWT:          jwt,
		Redis:        rdb,
		Audit:        audit,
		Cfg:          cfg,
		Logger:       logger,
	}
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Register creates an unverified Customer and sends the verification email.
func (s *AuthService) Register(ctx context.Context, username, password, email string) Result[*entity.User] {
	username, email = strings.TrimSpace(username), strings.ToLower(strings.TrimSpace(email))
	log := s.Logger.WithFields(logrus.Fields{"op": "AuthService.Register", "username": username})

	var problems []string
	if username == "" {
		problems = append(problems, "username is required")
	}
	if !strings.Contains(email, "@") {
		problems = append(problems, "email must be a valid email")
	}
	if len(password) < minPasswordLen {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters long", minPasswordLen))
	}
	if len(problems) > 0 {
		log.Warn("invalid registration")
		return BadRequest[*entity.User](strings.Join(problems, "; "))
	}

	if r := s.ensureUnused(ctx, username, email); !r.Succeeded() {
		return Propagate[*entity.User](r)
	}

	hash, salt, err := helpers.GenerateHashAndSalt(password)
	if err != nil {
		log.WithError(err).Error("hash password failed")
		return Internal[*entity.User]()
	}
	u := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         entity.RoleCustomer,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			log.Warn("username or email taken concurrently")
			return BadRequest[*entity.User]("username or email already registered")
		}
		log.WithError(err).Error("create user failed")
		return Internal[*entity.User]()
	}

	if _, err := s.Verification.Issue(ctx, u); err != nil {
		// The account exists; the user can ask for a new link.
		log.WithError(err).WithField("user_id", u.ID).Error("issue verification token failed")
	}
	s.Audit.Record(ctx, u.ID, fmt.Sprintf("Registered user %s (%s)", u.ID, u.Username))
	return Created(u)
}

func (s *AuthService) ensureUnused(ctx context.Context, username, email string) Result[bool] {
	log := s.Logger.WithFields(logrus.Fields{"op": "AuthService.Register", "username": username})
	if _, err := s.Users.GetByUsername(ctx, username); err == nil {
		log.Warn("username taken")
		return BadRequest[bool]("username already taken")
	} else if !errors.Is(err, repo.ErrNotFound) {
		log.WithError(err).Error("lookup username failed")
		return Internal[bool]()
	}
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		log.Warn("email taken")
		return BadRequest[bool]("email already registered")
	} else if !errors.Is(err, repo.ErrNotFound) {
		log.WithError(err).Error("lookup email failed")
		return Internal[bool]()
	}
	return OK(true)
}

// Login checks credentials and issues an access/refresh pair bound to a new session.
func (s *AuthService) Login(ctx context.Context, username, password string) Result[*Session] {
	log := s.Logger.WithFields(logrus.Fields{"op": "AuthService.Login", "username": username})

	u, err := s.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		log.WithError(err).Error("lookup user failed")
		return Internal[*Session]()
	}
	if u == nil || !helpers.VerifyPassword(password, u.PasswordHash, u.PasswordSalt) {
		log.Warn("invalid credentials")
		return Unauthorized[*Session]("invalid credentials")
	}
	if !u.IsVerified && s.Cfg.LoginRequireVerified {
		log.WithField("user_id", u.ID).Warn("login before email verification")
		return Unauthorized[*Session]("email not verified")
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		log.WithError(err).WithField("user_id", u.ID).Error("issue tokens failed")
		return Internal[*Session]()
	}
	now := time.Now().UTC()
	if err := s.Users.TouchLogin(ctx, u.ID, now); err != nil {
		log.WithError(err).WithField("user_id", u.ID).Warn("record last login failed")
	} else {
		u.LastLoginAt = &now
	}
	return OK(&Session{User: u, Tokens: pair})
}

// issueTokens generates access/refresh tokens and records a session in Redis.
func (s *AuthService) issueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.sign(u, sid)
	if err != nil {
		return TokenPair{}, err
	}
	if s.Redis != nil {
		key := helpers.SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"username":   u.Username,
			"role":       string(u.Role),
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, s.Cfg.RefreshTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return pair, nil
}

func (s *AuthService) sign(u *entity.User, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, string(u.Role), sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, string(u.Role), sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh validates the refresh token against the live session and rotates both tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) Result[*Session] {
	log := s.Logger.WithFields(logrus.Fields{"op": "AuthService.Refresh"})

	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		log.Warn("invalid refresh token")
		return Unauthorized[*Session]("invalid refresh token")
	}
	log = log.WithField("user_id", claims.UserID)
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		log.Warn("refresh for unknown user")
		return Unauthorized[*Session]("invalid refresh token")
	}
	if err != nil {
		log.WithError(err).Error("load user failed")
		return Internal[*Session]()
	}

	sid := uuid.NewString()
	if s.Redis != nil {
		key := helpers.SessionKey(u.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			log.Warn("refresh token does not match active session")
			return Unauthorized[*Session]("session expired")
		}
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"role":       string(u.Role),
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, s.Cfg.RefreshTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			log.WithError(rErr).Error("rotate session failed")
			return Internal[*Session]()
		}
	}
	pair, err := s.sign(u, sid)
	if err != nil {
		log.WithError(err).Error("sign tokens failed")
		return Internal[*Session]()
	}
	return OK(&Session{User: u, Tokens: pair})
}

// Logout drops the user's session so outstanding tokens stop working.
func (s *AuthService) Logout(ctx context.Context, userID string) Result[bool] {
	if s.Redis != nil {
		if err := s.Redis.Del(ctx, helpers.SessionKey(userID)).Err(); err != nil {
			s.Logger.WithFields(logrus.Fields{"op": "AuthService.Logout", "user_id": userID}).WithError(err).Error("delete session failed")
			return Internal[bool]()
		}
	}
	return OK(true)
}

func (s *AuthService) Profile(ctx context.Context, userID string) Result[*entity.User] {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		s.Logger.WithFields(logrus.Fields{"op": "AuthService.Profile", "user_id": userID}).Warn("user not found")
		return NotFound[*entity.User]("user not found")
	}
	if err != nil {
		s.Logger.WithFields(logrus.Fields{"op": "AuthService.Profile", "user_id": userID}).WithError(err).Error("load user failed")
		return Internal[*entity.User]()
	}
	return OK(u)
}

// ResendVerification issues a new verification link for an unverified user.
func (s *AuthService) ResendVerification(ctx context.Context, userID string) Result[bool] {
	r := s.Profile(ctx, userID)
	if !r.Succeeded() {
		return Propagate[bool](r)
	}
	u := r.Value()
	if u.IsVerified {
		return BadRequest[bool]("email already verified")
	}
	if _, err := s.Verification.Issue(ctx, u); err != nil {
		s.Logger.WithFields(logrus.Fields{"op": "AuthService.ResendVerification", "user_id": userID}).WithError(err).Error("issue verification token failed")
		return Internal[bool]()
	}
	return OK(true)
}
