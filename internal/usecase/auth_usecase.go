package usecase

import (
	"context"
	"strconv"
	"time"

	"app/internal/domain/apperr"
	repo "app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type LoginUsecase struct {
	users repo.UserRepository

	secret    []byte
	accessTTL time.Duration
}

// DI
func NewLoginUsecase(users repo.UserRepository, secret string, accessTTL time.Duration) *LoginUsecase {
	return &LoginUsecase{
		users:     users,
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	UserID      int64  `json:"user_id"`
}

// Login はemail+passwordを検証してHS256のアクセストークンを発行する。
// 存在しないemailとパスワード不一致は区別せず ErrInvalidCredentials を返す。
func (u *LoginUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	if in.Email == "" || in.Password == "" {
		return LoginOutput{}, apperr.Validation("email and password are required")
	}

	user, found, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return LoginOutput{}, err
	}
	if !found {
		return LoginOutput{}, apperr.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, apperr.ErrInvalidCredentials
	}

	now := time.Now()
	expiresAt := now.Add(u.accessTTL)

	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(user.ID, 10),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(u.secret)
	if err != nil {
		return LoginOutput{}, err
	}

	return LoginOutput{
		AccessToken: signed,
		ExpiresIn:   int64(u.accessTTL.Seconds()),
		UserID:      user.ID,
	}, nil
}
