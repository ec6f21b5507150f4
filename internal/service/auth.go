package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/mockmatch/internal/cache"
	"github.com/msomdec/mockmatch/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long a session token stays valid.
const TokenTTL = 24 * time.Hour

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string // checked only when non-empty
	FullName        string
	Email           string
	ExperienceLevel string
	Skills          []string
	TargetRole      string
	Bio             string
}

// AuthService handles user registration, login, and JWT token operations.
type AuthService struct {
	users      domain.UserRepository
	cache      *cache.Cache
	jwtSecret  []byte
	bcryptCost int
}

// NewAuthService creates a new AuthService. The cache may be nil.
func NewAuthService(users domain.UserRepository, c *cache.Cache, jwtSecret string, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		cache:      c,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user account after validating inputs.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	if username == "" || fullName == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, full name, email, and password are required", domain.ErrInvalidInput)
	}

	if in.ConfirmPassword != "" && in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", domain.ErrInvalidInput)
	}

	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	if err := validateEmail(email); err != nil {
		return nil, err
	}

	level, err := domain.ParseExperienceLevel(in.ExperienceLevel)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:        username,
		PasswordHash:    string(hash),
		FullName:        fullName,
		Email:           email,
		ExperienceLevel: level,
		Skills:          domain.NormalizeSkills(in.Skills),
		TargetRole:      strings.TrimSpace(in.TargetRole),
		Bio:             strings.TrimSpace(in.Bio),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// A new user is a candidate in every cached ranking.
	invalidateBestMatches(ctx, s.cache, user.ID)
	return user, nil
}

// Login verifies credentials and returns a signed JWT token string along
// with the authenticated user.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate jwt: %w", err)
	}

	return token, user, nil
}

// ValidateToken parses and validates a JWT token string.
// Returns the user ID from the sub claim.
func (s *AuthService) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	return userID, nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// IssueToken signs a session token for an already authenticated user, such
// as one that just registered.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	token, err := s.generateJWT(user)
	if err != nil {
		return "", fmt.Errorf("generate jwt: %w", err)
	}
	return token, nil
}

func (s *AuthService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(user.ID, 10),
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	return nil
}
