package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

// 「見つからない」の統一シグナル。repository層は例外的な制御フローを使わず、
// 存在しないことをこのエラーで返す。
var ErrNotFound = errors.New("not found")

type ProductRepository interface {
	Create(ctx context.Context, p model.Product) (model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	//0件更新は ErrNotFound。
	Update(ctx context.Context, p model.Product) error

	List(ctx context.Context, limit int, offset int) ([]model.Product, int64, error)
}
