package model

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// 有効なステータスの一覧（エラーメッセージにも使う）
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusShipped,
	OrderStatusCancelled,
}

// ParseOrderStatus は入力を4値のどれかに正規化する（大文字小文字は無視）。
// 4値以外は false。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled:
		return st, true
	}
	return "", false
}

type Order struct {
	ID     int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64       `gorm:"not null;index" json:"user_id"`
	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	//作成時にサーバーが採番。以後不変。
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`

	//ステータス変更時のみセットする。それまではnull。
	//この名前はgormの規約でINSERT時にも自動設定されるため、明示的に無効化する。
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}
