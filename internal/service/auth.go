package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/identity"
	"github.com/GuoYangtuo/potato-timer/internal/model"
	"github.com/GuoYangtuo/potato-timer/internal/repository"
	"github.com/GuoYangtuo/potato-timer/internal/validation"
)

type AuthService struct {
	users    repository.UserRepository
	resolver identity.Resolver
	secret   []byte
	expiry   time.Duration
}

func NewAuthService(users repository.UserRepository, resolver identity.Resolver, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		resolver: resolver,
		secret:   []byte(secret),
		expiry:   expiry,
	}
}

// LoginResult is a signed token plus the account it belongs to.
type LoginResult struct {
	Token string
	User  *model.User
}

// UpdateProfileInput is sparse: nil fields are left untouched.
type UpdateProfileInput struct {
	Nickname  *string
	AvatarURL *string
}

// Login resolves the one-tap token to a phone number and signs the caller
// in, registering a fresh account on first contact.
func (s *AuthService) Login(ctx context.Context, accessToken string) (*LoginResult, error) {
	phone, err := s.resolver.ResolvePhone(ctx, accessToken)
	if err != nil {
		return nil, apperror.Validation("accessToken", "could not verify the login token")
	}

	return s.LoginWithPhone(phone)
}

// LoginWithPhone signs in the account behind the phone number, creating it
// if it does not exist yet.
func (s *AuthService) LoginWithPhone(phone string) (*LoginResult, error) {
	if !validation.ValidPhone(phone) {
		return nil, apperror.Validation("phone", "invalid phone number")
	}

	user, err := s.users.ByPhone(phone)
	if errors.Is(err, repository.ErrUserNotFound) {
		user, err = s.register(phone)
	}
	if err != nil {
		return nil, err
	}

	token, err := s.mint(user.ID)
	if err != nil {
		return nil, apperror.Store(err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) register(phone string) (*model.User, error) {
	user := &model.User{
		PhoneNumber: phone,
		Nickname:    validation.DefaultNickname(phone),
		CreatedAt:   time.Now(),
	}

	err := s.users.Create(user)
	if errors.Is(err, repository.ErrDuplicatePhone) {
		// Lost a registration race; the other writer's row is ours to use.
		return s.users.ByPhone(phone)
	}
	if err != nil {
		return nil, apperror.Store(err)
	}

	return user, nil
}

func (s *AuthService) Profile(userID int64) (*model.User, error) {
	user, err := s.users.ByID(userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.NotFound("user")
	}
	if err != nil {
		return nil, apperror.Store(err)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(userID int64, input UpdateProfileInput) (*model.User, error) {
	fields := map[string]any{}
	if input.Nickname != nil {
		nickname := *input.Nickname
		if nickname == "" || len(nickname) > 64 {
			return nil, apperror.Validation("nickname", "nickname must be 1 to 64 characters")
		}
		fields["nickname"] = nickname
	}
	if input.AvatarURL != nil {
		fields["avatar_url"] = *input.AvatarURL
	}

	err := s.users.UpdateProfile(userID, fields)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.NotFound("user")
	}
	if err != nil {
		return nil, apperror.Store(err)
	}

	return s.Profile(userID)
}

func (s *AuthService) mint(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken parses and validates a bearer token and returns the user id
// it was minted for.
func (s *AuthService) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, errors.New("invalid token subject")
	}

	return userID, nil
}
