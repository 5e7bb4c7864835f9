package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"app/internal/domain/apperr"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 簡易メール形式チェック
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserUsecase struct {
	users repo.UserRepository

	//bcryptコスト。mainで指定する（テストでは小さくして速くできる）。
	bcryptCost int
}

// DI
func NewUserUsecase(users repo.UserRepository, bcryptCost int) *UserUsecase {
	return &UserUsecase{users: users, bcryptCost: bcryptCost}
}

type RegisterUserInput struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type UserOutput struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

type UserListOutput struct {
	Users  []UserOutput `json:"users"`
	Total  int64        `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// Register はユーザーを新規作成する。
// email重複は apperr.ErrEmailTaken（ハンドラ側で409になる）。
func (u *UserUsecase) Register(ctx context.Context, in RegisterUserInput) (UserOutput, error) {
	email := strings.TrimSpace(in.Email)

	if !emailRe.MatchString(email) {
		return UserOutput{}, apperr.Validation("invalid email format")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return UserOutput{}, apperr.Validation("full_name must not be empty")
	}
	if len(in.Password) < 8 {
		return UserOutput{}, apperr.Validation("password must be at least 8 characters")
	}

	//email重複チェック
	_, found, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return UserOutput{}, err
	}
	if found {
		return UserOutput{}, apperr.ErrEmailTaken
	}

	//ハッシュを保存（平文は保存しない）
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.bcryptCost)
	if err != nil {
		return UserOutput{}, err
	}

	user := &model.User{
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hashed),
	}
	if err := u.users.Create(ctx, user); err != nil {
		return UserOutput{}, err
	}

	return toUserOutput(*user), nil
}

func (u *UserUsecase) Get(ctx context.Context, userID int64) (UserOutput, error) {
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return UserOutput{}, apperr.ErrUserNotFound
	}
	if err != nil {
		return UserOutput{}, err
	}
	return toUserOutput(user), nil
}

func (u *UserUsecase) List(ctx context.Context, limit int, offset int) (UserListOutput, error) {
	if limit < 1 || limit > 100 {
		return UserListOutput{}, apperr.Validation("limit must be between 1 and 100")
	}
	if offset < 0 {
		return UserListOutput{}, apperr.Validation("offset must be >= 0")
	}

	users, total, err := u.users.List(ctx, limit, offset)
	if err != nil {
		return UserListOutput{}, err
	}

	out := UserListOutput{
		Users:  make([]UserOutput, 0, len(users)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, usr := range users {
		out.Users = append(out.Users, toUserOutput(usr))
	}
	return out, nil
}

func toUserOutput(u model.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
}
