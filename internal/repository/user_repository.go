package repository

import (
	"context"

	"app/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (model.User, error)

	//存在しない場合は found=false（エラーではない）。
	FindByEmail(ctx context.Context, email string) (model.User, bool, error)

	//表示名の解決用。1クエリでまとめて引く。
	FindByIDs(ctx context.Context, ids []int64) ([]model.User, error)

	List(ctx context.Context, limit int, offset int) ([]model.User, int64, error)
}
