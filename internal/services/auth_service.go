package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/policy"
	"github.com/adanyl0v/go-taskboard/internal/repository"
)

type authServiceImpl struct {
	logger        zerolog.Logger
	users         repository.UserRepository
	roles         repository.RoleRepository
	jwtIssuer     string
	jwtSigningKey []byte
	jwtTokenTTL   time.Duration
	defaultRoleID string
	now           func() time.Time
}

func NewAuthService(
	logger zerolog.Logger,
	users repository.UserRepository,
	roles repository.RoleRepository,
	jwtIssuer string,
	jwtSigningKey []byte,
	jwtTokenTTL time.Duration,
	defaultRoleID string,
) AuthService {
	return &authServiceImpl{
		logger:        logger,
		users:         users,
		roles:         roles,
		jwtIssuer:     jwtIssuer,
		jwtSigningKey: jwtSigningKey,
		jwtTokenTTL:   jwtTokenTTL,
		defaultRoleID: defaultRoleID,
		now:           time.Now,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*models.UserView, error) {
	now := s.now()
	user := &models.User{
		FirstName:      strings.TrimSpace(params.FirstName),
		LastName:       strings.TrimSpace(params.LastName),
		Email:          normalizeEmail(params.Email),
		Mobile:         params.Mobile,
		RoleID:         params.RoleID,
		ProfilePicture: params.ProfilePicture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if user.RoleID == "" {
		user.RoleID = s.defaultRoleID
	}

	_, err := s.users.FindByEmail(ctx, user.Email)
	if err == nil {
		s.logger.Error().
			Str("email", user.Email).
			Msg("user with this email already exists")
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error().
			Err(err).
			Str("email", user.Email).
			Msg("failed to select user by email")
		return nil, err
	}

	var role *models.Role
	if user.RoleID != "" {
		role, err = s.roles.FindByID(ctx, user.RoleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.Error().
					Str("role_id", user.RoleID).
					Msg("role not found")
				return nil, ErrRoleNotFound
			}

			s.logger.Error().
				Err(err).
				Str("role_id", user.RoleID).
				Msg("failed to select role")
			return nil, err
		}
	}

	user.Password, err = hashPassword(params.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	err = s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.logger.Error().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("registered user")

	view := &models.UserView{User: *user}
	if role != nil {
		view.RoleName = role.Name
	}
	return view, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, params.Email, params.Password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.IssueOrReuseToken(ctx, user)
	if err != nil {
		return nil, err
	}

	views, err := joinUsers(ctx, s.roles, []*models.User{user})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to join user role")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Time("expires_at", expiresAt).
		Msg("logged in")
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      views[0],
	}, nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Str("email", email).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("email", email).
			Msg("failed to select user by email")
		return nil, err
	}

	match, err := comparePassword(password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Error().Msg("passwords do not match")
		return nil, ErrUserPasswordMismatch
	}
	return user, nil
}

func (s *authServiceImpl) IssueOrReuseToken(ctx context.Context, user *models.User) (string, time.Time, error) {
	if user.HasValidToken(s.now()) {
		s.logger.Debug().
			Str("user_id", user.ID).
			Msg("reusing session token")
		return user.Token, *user.TokenExpiresAt, nil
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate token")
		return "", time.Time{}, err
	}

	err = s.users.SetToken(ctx, user.ID, token, expiresAt)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to store token")
		return "", time.Time{}, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Time("expires_at", expiresAt).
		Msg("issued session token")

	user.Token = token
	user.TokenExpiresAt = &expiresAt
	return token, expiresAt, nil
}

func (s *authServiceImpl) ParseJWTToken(token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *authServiceImpl) AuthenticateRequest(ctx context.Context, token string) (policy.Caller, error) {
	claims, err := s.ParseJWTToken(token)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Msg("rejected token")
		return policy.Caller{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().
				Str("user_id", claims.UserID).
				Msg("token owner not found")
			return policy.Caller{}, ErrSessionRevoked
		}

		s.logger.Error().
			Err(err).
			Str("user_id", claims.UserID).
			Msg("failed to select user")
		return policy.Caller{}, err
	}
	if user.Token != token {
		s.logger.Error().
			Str("user_id", user.ID).
			Msg("token was replaced")
		return policy.Caller{}, ErrSessionRevoked
	}

	caller := policy.Caller{UserID: user.ID}
	if user.RoleID != "" {
		roles, err := s.roles.FindByIDs(ctx, []string{user.RoleID}, repository.AnyDeleted)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("role_id", user.RoleID).
				Msg("failed to select role")
			return policy.Caller{}, err
		}
		if len(roles) > 0 {
			caller.RoleName = roles[0].Name
		}
	}
	return caller, nil
}

func (s *authServiceImpl) generateToken(user *models.User) (string, time.Time, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate id: %w", err)
	}

	// Token timestamps have second precision.
	now := s.now().Truncate(time.Second)
	expiresAt := now.Add(s.jwtTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.ID,
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID.String(),
			Issuer:    s.jwtIssuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
