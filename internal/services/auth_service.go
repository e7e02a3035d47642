package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pitwall/internal/logging"
	"pitwall/internal/models"
	"pitwall/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// TokenConfig controls how access tokens are signed.
type TokenConfig struct {
	Secret    string
	Algorithm string // HS256, HS384 or HS512
	Lifetime  time.Duration
	// AdminEmails get the admin role when they register.
	AdminEmails []string
}

// Claims is what a validated access token says about its bearer.
type Claims struct {
	Email string
	Nick  string
	Role  string
}

// IsAdmin reports whether the bearer holds the admin role.
func (c Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// AuthService handles registration, login and token validation.
type AuthService struct {
	userRepo      repositories.UserRepository
	events        EventPublisher
	jwtSecret     []byte
	signingMethod jwt.SigningMethod
	tokenDuration time.Duration
	adminEmails   map[string]bool
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(userRepo repositories.UserRepository, cfg TokenConfig, events EventPublisher) (*AuthService, error) {
	method := jwt.GetSigningMethod(strings.ToUpper(cfg.Algorithm))
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = 30 * time.Minute
	}

	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		if email = strings.TrimSpace(strings.ToLower(email)); email != "" {
			admins[email] = true
		}
	}

	return &AuthService{
		userRepo:      userRepo,
		events:        events,
		jwtSecret:     []byte(cfg.Secret),
		signingMethod: method,
		tokenDuration: cfg.Lifetime,
		adminEmails:   admins,
	}, nil
}

// RegisterUser checks nick and email are free, hashes the password and stores
// the user. On return user.Password holds the hash.
func (s *AuthService) RegisterUser(user *models.User) error {
	if _, err := s.userRepo.GetByNick(user.Nick); err == nil {
		return fmt.Errorf("nick '%s': %w", user.Nick, ErrDuplicateNick)
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check nick: %w", err)
	}
	if _, err := s.userRepo.GetByEmail(user.Email); err == nil {
		return fmt.Errorf("email '%s': %w", user.Email, ErrDuplicateEmail)
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	user.Role = models.RoleUser
	if s.adminEmails[strings.ToLower(user.Email)] {
		user.Role = models.RoleAdmin
	}

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	logging.Info().Str("nick", user.Nick).Str("role", user.Role).Msg("user registered")
	publish(s.events, EventUserRegistered, map[string]string{"id": user.ID, "nick": user.Nick, "email": user.Email})
	return nil
}

// LoginUser authenticates by email and password and returns a signed token.
func (s *AuthService) LoginUser(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(s.signingMethod, jwt.MapClaims{
		"sub":  user.Email,
		"nick": user.Nick,
		"role": user.Role,
		"exp":  now.Add(s.tokenDuration).Unix(),
		"iat":  now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token signed with the configured
// algorithm and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.signingMethod.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, ok := mapClaims["exp"]; !ok {
		return nil, fmt.Errorf("%w: missing expiry", ErrInvalidToken)
	}
	email, _ := mapClaims["sub"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	nick, _ := mapClaims["nick"].(string)
	role, _ := mapClaims["role"].(string)

	return &Claims{Email: email, Nick: nick, Role: role}, nil
}

// ChangePassword replaces the password of the user identified by email after
// checking the current one.
func (s *AuthService) ChangePassword(email, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrIncorrectPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		return err
	}

	publish(s.events, EventUserPasswordChanged, map[string]string{"id": user.ID, "nick": user.Nick})
	return nil
}
