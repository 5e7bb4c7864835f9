package model

type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`

	//注文作成時点の単価スナップショット。
	//商品の価格が後で変わっても過去の注文は変わらない。作成後は不変。
	PriceCentsAtPurchase int64 `gorm:"not null" json:"price_cents_at_purchase"`
}
