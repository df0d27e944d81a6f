package Services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"MatirBank/Models"
)

type Registration struct {
	Username string
	Password string
	FullName string
	Email    *string
	Phone    *string
	Address  *string
}

type AuthService struct {
	db     *gorm.DB
	log    *zap.Logger
	secret []byte
	ttl    time.Duration
}

func NewAuthService(db *gorm.DB, log *zap.Logger, secret string, ttl time.Duration) *AuthService {
	return &AuthService{db: db, log: log, secret: []byte(secret), ttl: ttl}
}

func (s *AuthService) Register(ctx context.Context, in Registration) (*Models.User, error) {
	if in.Username == "" || in.Password == "" || in.FullName == "" {
		return nil, Validation("Username, password, and full name are required")
	}
	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&Models.User{}).Where("username = ?", in.Username).Count(&existing).Error; err != nil {
		return nil, Persistence("Registration failed", err)
	}
	if existing > 0 {
		return nil, Conflict("Username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, Persistence("Registration failed", err)
	}

	user := &Models.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Email:        in.Email,
		PhoneNumber:  in.Phone,
		Address:      in.Address,
		Role:         Models.RoleMember,
	}
	if err := db.Create(user).Error; err != nil {
		// A concurrent registration can win between the count and the insert
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflict("Username already exists")
		}
		return nil, Persistence("Registration failed", err)
	}
	s.log.Info("user registered", zap.Uint("user_id", user.UserID), zap.String("username", user.Username))
	return user, nil
}

// Login checks the credentials and returns the user with a signed token
func (s *AuthService) Login(ctx context.Context, username, password string) (*Models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", Validation("Username and password are required")
	}

	var user Models.User
	if err := s.db.WithContext(ctx).Take(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", Unauthorized("User not found")
		}
		return nil, "", Persistence("Login failed", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", Unauthorized("Invalid password")
	}

	token, err := s.IssueToken(&user)
	if err != nil {
		return nil, "", Persistence("Login failed", err)
	}
	return &user, token, nil
}

// IssueToken signs an HS256 token whose issuer is the user id
func (s *AuthService) IssueToken(user *Models.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatUint(uint64(user.UserID), 10),
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Authenticate resolves a token to its user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Models.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, Unauthorized("Invalid or expired token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return nil, Unauthorized("Invalid token claims")
	}
	userID, err := strconv.ParseUint(claims.Issuer, 10, 64)
	if err != nil {
		return nil, Unauthorized("Invalid token claims")
	}

	var user Models.User
	if err := s.db.WithContext(ctx).Take(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthorized("User not found")
		}
		return nil, Persistence("Failed to load user", err)
	}
	return &user, nil
}

func (s *AuthService) TTL() time.Duration {
	return s.ttl
}
