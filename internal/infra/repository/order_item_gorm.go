package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

// CreateBulk は明細をまとめてINSERTする。採番されたIDはitemsに書き戻される。
func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	for i := range items {
		items[i].OrderID = orderID
	}

	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return err
	}
	return nil
}

// ListByOrderIDs は複数注文の明細を商品名ごと1クエリで返す。
// 注文ごとに引き直すN+1はここで避ける。
func (r *OrderItemGormRepository) ListByOrderIDs(ctx context.Context, orderIDs []int64, productID *int64) ([]repo.OrderItemDetail, error) {
	if len(orderIDs) == 0 {
		return []repo.OrderItemDetail{}, nil
	}

	q := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.id, order_items.order_id, order_items.product_id, "+
			"order_items.quantity, order_items.price_cents_at_purchase, products.name AS product_name").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id IN ?", orderIDs)

	if productID != nil {
		q = q.Where("order_items.product_id = ?", *productID)
	}

	var details []repo.OrderItemDetail
	if err := q.Order("order_items.id asc").Scan(&details).Error; err != nil {
		return nil, err
	}

	if details == nil {
		details = []repo.OrderItemDetail{}
	}
	return details, nil
}
