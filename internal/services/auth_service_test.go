package services_test

import (
	"errors"
	"testing"
	"time"

	"pitwall/internal/models"
	"pitwall/internal/repositories"
	"pitwall/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

func newAuthService(t *testing.T, repo *MockUserRepository, events services.EventPublisher) *services.AuthService {
	t.Helper()
	authService, err := services.NewAuthService(repo, services.TokenConfig{
		Secret:      testJWTSecret,
		Algorithm:   "HS256",
		Lifetime:    time.Hour,
		AdminEmails: []string{"Boss@Example.com"},
	}, events)
	require.NoError(t, err)
	return authService
}

func notFound(what string) error {
	return errors.Join(errors.New(what), repositories.ErrUserNotFound)
}

func TestNewAuthService_RejectsNonHMAC(t *testing.T) {
	_, err := services.NewAuthService(new(MockUserRepository), services.TokenConfig{Secret: "s", Algorithm: "RS256"}, nil)
	assert.Error(t, err)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	authService := newAuthService(t, mockRepo, publisher)

	user := &models.User{
		Nick:     "testuser",
		Name:     "Test",
		Email:    "test@example.com",
		Password: "password123",
		Role:     models.RoleAdmin,
	}

	mockRepo.On("GetByNick", user.Nick).Return(nil, notFound("nick")).Once()
	mockRepo.On("GetByEmail", user.Email).Return(nil, notFound("email")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	publisher.On("PublishEvent", services.EventUserRegistered, mock.Anything).Return(nil).Once()

	err := authService.RegisterUser(user)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	assert.Equal(t, models.RoleUser, user.Role, "clients cannot pick their own role")
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)

	// Nick already taken
	mockRepo.On("GetByNick", user.Nick).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.ErrorIs(t, err, services.ErrDuplicateNick)
	assert.Contains(t, err.Error(), "nick 'testuser'")

	// Email already registered
	mockRepo.On("GetByNick", user.Nick).Return(nil, notFound("nick")).Once()
	mockRepo.On("GetByEmail", user.Email).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterAdminEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo, nil)

	admin := &models.User{Nick: "boss", Email: "boss@example.com", Password: "password123"}
	mockRepo.On("GetByNick", "boss").Return(nil, notFound("nick")).Once()
	mockRepo.On("GetByEmail", "boss@example.com").Return(nil, notFound("email")).Once()
	mockRepo.On("Create", admin).Return(nil).Once()

	require.NoError(t, authService.RegisterUser(admin))
	assert.Equal(t, models.RoleAdmin, admin.Role)
}

func TestAuthService_RegisterRepositoryFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo, nil)

	mockRepo.On("GetByNick", "x").Return(nil, errors.New("connection refused")).Once()
	err := authService.RegisterUser(&models.User{Nick: "x", Email: "x@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrDuplicateNick)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo, nil)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Nick:     "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}

	// Successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	token, err := authService.LoginUser("test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "HS256", parsedToken.Method.Alg())
	assert.Equal(t, user.Email, claims["sub"])
	assert.Equal(t, user.Role, claims["role"])
	assert.Equal(t, user.Nick, claims["nick"])
	assert.Contains(t, claims, "exp")

	// Wrong password
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	token, err = authService.LoginUser("test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.Empty(t, token)

	// Unknown email gives the same error
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, notFound("email")).Once()
	token, err = authService.LoginUser("nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.Empty(t, token)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := newAuthService(t, new(MockUserRepository), nil)

	sign := func(method jwt.SigningMethod, claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	valid := sign(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "test@example.com",
		"nick": "testuser",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret)
	claims, err := authService.ValidateToken(valid)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "testuser", claims.Nick)
	assert.True(t, claims.IsAdmin())

	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	expired := sign(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "test@example.com",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, testJWTSecret)
	_, err = authService.ValidateToken(expired)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	wrongSecret := sign(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "test@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, "another-secret")
	_, err = authService.ValidateToken(wrongSecret)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	otherAlg := sign(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "test@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret)
	_, err = authService.ValidateToken(otherAlg)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	noSubject := sign(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret)
	_, err = authService.ValidateToken(noSubject)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	noExpiry := sign(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "test@example.com"}, testJWTSecret)
	_, err = authService.ValidateToken(noExpiry)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_ChangePassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo, nil)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Nick: "driver", Email: "driver@example.com", Password: string(hashedPassword)}

	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	err := authService.ChangePassword(user.Email, "not-it", "new-password")
	assert.ErrorIs(t, err, services.ErrIncorrectPassword)

	var stored string
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	mockRepo.On("UpdatePassword", "user-1", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { stored = args.String(1) }).
		Return(nil).Once()
	require.NoError(t, authService.ChangePassword(user.Email, "old-password", "new-password"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("new-password")))

	mockRepo.On("GetByEmail", "gone@example.com").Return(nil, notFound("email")).Once()
	err = authService.ChangePassword("gone@example.com", "x", "new-password")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	mockRepo.AssertExpectations(t)
}
