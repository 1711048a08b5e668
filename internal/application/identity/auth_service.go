package identity

import (
	"context"
	"errors"
	"time"

	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/sokohub/backend/internal/domain/shared"
	"github.com/sokohub/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig tunes the login lockout.
type AuthServiceConfig struct {
	MaxLoginAttempts int           // failures before the account locks
	LockDuration     time.Duration // how long the lock lasts
}

// DefaultAuthServiceConfig locks for fifteen minutes after five
// failed attempts.
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles registration, login, and token lifecycle
type AuthService struct {
	userRepo         identity.UserRepository
	profileRepo      identity.ProfileRepository
	registrationRepo identity.RegistrationRepository
	jwtService       *auth.JWTService
	blacklist        auth.TokenBlacklist
	config           AuthServiceConfig
	logger           *zap.Logger
	events           shared.EventPublisher
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

func NewAuthService(
	userRepo identity.UserRepository,
	profileRepo identity.ProfileRepository,
	registrationRepo identity.RegistrationRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		registrationRepo: registrationRepo,
		jwtService:       jwtService,
		blacklist:        blacklist,
		config:           config,
		logger:           logger,
	}
}

// Register creates a user with its customer profile and logs them in.
// The user and profile rows are written in one transaction; a failure
// leaves neither behind.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "This email is already registered")
	}

	user, err := identity.NewUser(input.Email, input.Name, input.Password)
	if err != nil {
		return nil, err
	}
	profile, err := identity.NewProfile(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.registrationRepo.CreateUserWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// Lost the race against a concurrent registration
			return nil, shared.NewDomainError("EMAIL_TAKEN", "This email is already registered")
		}
		s.logger.Error("Failed to persist registration", zap.Error(err))
		return nil, err
	}

	if s.events != nil {
		_ = s.events.Publish(ctx, user.GetDomainEvents()...)
		user.ClearDomainEvents()
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return s.issueTokens(user, profile)
}

// Login verifies credentials and issues a token pair. Failures feed
// the lockout counter; unknown emails get the same error as wrong
// passwords.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("Login for unknown email", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("user_id", user.ID.String()))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
		}
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("Failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after repeated failures",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	profile, err := s.profileRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		s.logger.Error("Profile missing for user", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Login still succeeds; the timestamp is best effort
		s.logger.Error("Failed to record login success", zap.Error(err))
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))

	return s.issueTokens(user, profile)
}

// RefreshToken exchanges a valid refresh token for a new pair. The role
// claim is re-read from the profile so a tier or role change takes
// effect on the next refresh.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Blacklist lookup failed", zap.Error(err))
		return nil, err
	}
	if blacklisted {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "User no longer exists")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account is no longer active")
	}

	profile, err := s.profileRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   profile.Role,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	// Revoke the old refresh token so it is single use
	if ttl := claims.GetRemainingTTL(); ttl > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
			s.logger.Error("Failed to revoke used refresh token", zap.Error(err))
		}
	}

	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI != "" && input.TokenTTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
			s.logger.Error("Failed to blacklist token on logout", zap.Error(err))
			return err
		}
	}

	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// ChangePassword verifies the old password and sets a new one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	// Invalidate every outstanding token for this user
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to invalidate tokens after password change", zap.Error(err))
	}

	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) issueTokens(user *identity.User, profile *identity.Profile) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   profile.Role,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User: UserInfo{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  profile.Role,
		},
	}, nil
}
