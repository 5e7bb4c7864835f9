package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

// 注文一覧の絞り込み条件。指定されたものだけANDで効く。
type OrderListFilter struct {
	Status *model.OrderStatus
	UserID *int64

	//created_atの範囲（両端とも含む）
	From *time.Time
	To   *time.Time

	//このproduct_idの明細を1件以上含む注文
	ProductID *int64

	Limit  int
	Offset int
}

// フィルタ全体に対する集計。ページングとは無関係に全該当行を合計する。
// ProductID指定時は該当商品に一致する明細行だけが対象。
type OrderAggregates struct {
	TotalAmountCents int64
	TotalQuantity    int64
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//絞り込み済みの1ページ＋全該当件数＋フィルタ全体の集計を返す。
	//ページ内の並びは id ASC で安定。
	ListWithFilters(ctx context.Context, f OrderListFilter) ([]model.Order, int64, OrderAggregates, error)

	Create(ctx context.Context, order model.Order) (int64, error)

	//status と updated_at の1行更新。0件なら ErrNotFound。
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, updatedAt time.Time) error

	//注文と明細を同一トランザクションで削除する（孤児を残さない）。
	Delete(ctx context.Context, orderID int64) error
}
