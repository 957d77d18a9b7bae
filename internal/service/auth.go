package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarkhas/storefront/internal/events"
	"github.com/dmarkhas/storefront/internal/hash"
	"github.com/dmarkhas/storefront/internal/logging"
	"github.com/dmarkhas/storefront/internal/models"
	"github.com/dmarkhas/storefront/internal/repo"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Events        *events.Producer
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: user already exists", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user: %w", err)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Email: email, PasswordHash: pwHash, Role: "user"}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.Events.PublishEvent(ctx, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	}); err != nil {
		logging.FromContext(ctx).Warn("kafka_publish_failed", "error", err)
	}
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	access, err := SignAccessToken(user.ID, user.Role, s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.issueRefreshToken(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

func (s *AuthService) LogOut(ctx context.Context, rawRefresh string) error {
	if rawRefresh == "" {
		return nil
	}
	if err := s.Repo.RevokeRefreshToken(ctx, rawRefresh); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// Refresh rotates a valid, stored, unrevoked refresh token into a new
// access/refresh pair.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (string, string, error) {
	claims, err := s.validateRefresh(ctx, rawRefresh)
	if err != nil {
		return "", "", err
	}

	userID := uint(claims["sub"].(float64))
	role, _ := claims["role"].(string)

	access, err := SignAccessToken(userID, role, s.JWTSecret)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.issueRefreshToken(ctx, userID, role)
	if err != nil {
		return "", "", err
	}
	if err := s.Repo.RevokeRefreshToken(ctx, rawRefresh); err != nil {
		return "", "", fmt.Errorf("revoke old refresh token: %w", err)
	}
	return access, refresh, nil
}

func (s *AuthService) issueRefreshToken(ctx context.Context, userID uint, role string) (string, error) {
	exp := time.Now().Add(RefreshTokenTTL)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"typ":  "refresh",
		"jti":  uuid.NewString(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := t.SignedString(s.RefreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}

	stored := models.RefreshToken{Token: raw, UserID: userID, ExpiresAt: exp.Unix()}
	if err := s.Repo.SaveRefreshToken(ctx, &stored); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return raw, nil
}

func (s *AuthService) validateRefresh(ctx context.Context, rawToken string) (jwt.MapClaims, error) {
	t, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.RefreshSecret, nil
	})
	if err != nil || !t.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: bad claims", ErrInvalidRefreshToken)
	}
	if typ, ok := claims["typ"]; !ok || typ != "refresh" {
		return nil, fmt.Errorf("%w: not a refresh token", ErrInvalidRefreshToken)
	}
	if _, ok := claims["sub"].(float64); !ok {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidRefreshToken)
	}

	stored, err := s.Repo.GetRefreshToken(ctx, rawToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown token", ErrInvalidRefreshToken)
		}
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	if stored.Revoked {
		return nil, fmt.Errorf("%w: revoked", ErrInvalidRefreshToken)
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, fmt.Errorf("%w: expired", ErrInvalidRefreshToken)
	}
	return claims, nil
}

func SignAccessToken(userID uint, role string, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(AccessTokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}
