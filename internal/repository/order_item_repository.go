package repository

import (
	"context"

	"app/internal/domain/model"
)

// 明細＋商品名。一覧系はこれをまとめて取り、注文ごとのN+1クエリを避ける。
type OrderItemDetail struct {
	ID                   int64  `json:"id"`
	OrderID              int64  `json:"order_id"`
	ProductID            int64  `json:"product_id"`
	Quantity             int64  `json:"quantity"`
	PriceCentsAtPurchase int64  `json:"price_cents_at_purchase"`
	ProductName          string `json:"product_name"`
}

type OrderItemRepository interface {
	//orderIDを明細にセットして一括INSERTする。
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error

	//複数注文の明細を商品名ごと1クエリで取得する。
	//productID指定時は該当商品の明細だけに絞る。並びは id ASC。
	ListByOrderIDs(ctx context.Context, orderIDs []int64, productID *int64) ([]OrderItemDetail, error)
}
