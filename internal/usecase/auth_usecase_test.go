package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"app/internal/domain/apperr"
	"app/internal/domain/model"
)

func seedUserWithPassword(t *testing.T, s *memStore, email, password string) model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u := s.seedUser("Login User", email)
	u.PasswordHash = string(hashed)
	s.users[u.ID] = u
	return u
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	user := seedUserWithPassword(t, s, "alice@example.com", "s3cret-pass")

	uc := NewLoginUsecase(s.Users(), "test-secret", 15*time.Minute)

	out, err := uc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, out.UserID)
	assert.Equal(t, int64(900), out.ExpiresIn)

	//発行側と同じ鍵・同じアルゴリズムで検証できること
	tok, err := jwt.Parse(out.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "1", claims["sub"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	seedUserWithPassword(t, s, "alice@example.com", "s3cret-pass")

	uc := NewLoginUsecase(s.Users(), "test-secret", 15*time.Minute)

	//存在しないemailとパスワード不一致で同じエラーを返す
	_, err := uc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = uc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestLogin_RequiresEmailAndPassword(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	uc := NewLoginUsecase(s.Users(), "test-secret", 15*time.Minute)

	_, err := uc.Login(ctx, LoginInput{Email: "", Password: ""})
	assert.True(t, apperr.IsValidation(err))
}
