package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// フィルタ条件を1つのクエリビルダにまとめる。ページングクエリと集計クエリで共用。
func (r *OrderGormRepository) applyFilter(q *gorm.DB, f repo.OrderListFilter) *gorm.DB {
	//status 絞り込み
	if f.Status != nil {
		q = q.Where("orders.status = ?", *f.Status)
	}

	//user_id 絞り込み
	if f.UserID != nil {
		q = q.Where("orders.user_id = ?", *f.UserID)
	}

	//期間絞り込み（両端とも含む）
	if f.From != nil {
		q = q.Where("orders.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("orders.created_at <= ?", *f.To)
	}

	return q
}

// ListWithFilters は絞り込んだ1ページと全該当件数、フィルタ全体の集計を返す。
// 集計はページングに影響されない（「3 / 500件、合計$12,345」を出すため）。
func (r *OrderGormRepository) ListWithFilters(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, repo.OrderAggregates, error) {
	q := r.applyFilter(r.db.WithContext(ctx).Model(&model.Order{}), f)

	//この商品の明細を含む注文だけ
	if f.ProductID != nil {
		q = q.Where(
			"EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.product_id = ?)",
			*f.ProductID,
		)
	}

	//total（件数）はページング前に数える
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, repo.OrderAggregates{}, err
	}

	//並びは id ASC で固定。同じ条件なら同じページが返る。
	var orders []model.Order
	if err := q.Order("orders.id asc").Limit(f.Limit).Offset(f.Offset).Find(&orders).Error; err != nil {
		return []model.Order{}, 0, repo.OrderAggregates{}, err
	}

	agg, err := r.aggregate(ctx, f)
	if err != nil {
		return []model.Order{}, 0, repo.OrderAggregates{}, err
	}

	return orders, total, agg, nil
}

// aggregate は同じフィルタ条件で全該当明細を合計する（limit/offsetなし）。
// ProductID指定時は該当商品の明細行だけを合計する。
func (r *OrderGormRepository) aggregate(ctx context.Context, f repo.OrderListFilter) (repo.OrderAggregates, error) {
	q := r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id")

	q = r.applyFilter(q, f)

	if f.ProductID != nil {
		q = q.Where("order_items.product_id = ?", *f.ProductID)
	}

	var agg repo.OrderAggregates
	err := q.Select(
		"COALESCE(SUM(order_items.quantity * order_items.price_cents_at_purchase), 0) AS total_amount_cents, " +
			"COALESCE(SUM(order_items.quantity), 0) AS total_quantity",
	).Scan(&agg).Error
	if err != nil {
		return repo.OrderAggregates{}, err
	}

	return agg, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, updatedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": updatedAt,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Delete は注文と明細を同一トランザクションで消す。明細の孤児を残さない。
func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", orderID).Delete(&model.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
