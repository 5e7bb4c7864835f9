package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"app/internal/domain/apperr"
	"app/internal/domain/model"
	repo "app/internal/repository"
)

type OrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	users      repo.UserRepository
}

// DI
func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	users repo.UserRepository,
) *OrderUsecase {
	return &OrderUsecase{
		tx:         tx,
		orders:     orders,
		orderItems: orderItems,
		users:      users,
	}
}

// GET /ordersの入力DTO
type ListOrdersInput struct {
	Status    string
	UserID    *int64
	StartDate string
	EndDate   string
	ProductID *int64
	Limit     int
	Offset    int
}

type CreateOrderItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CreateOrderInput struct {
	UserID int64                  `json:"user_id"`
	Status string                 `json:"status"`
	Items  []CreateOrderItemInput `json:"items"`
}

type OrderItemOutput struct {
	ID                   int64  `json:"id"`
	ProductID            int64  `json:"product_id"`
	Quantity             int64  `json:"quantity"`
	PriceCentsAtPurchase int64  `json:"price_cents_at_purchase"`
	ProductName          string `json:"product_name"`
}

type OrderOutput struct {
	OrderID   int64             `json:"order_id"`
	UserID    int64             `json:"user_id"`
	UserName  string            `json:"user_name"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	Items     []OrderItemOutput `json:"items"`

	//この注文の（表示中の明細に対する）合計
	TotalAmountCents int64 `json:"total_amount_cents"`
	TotalQuantity    int64 `json:"total_quantity"`
}

type OrderListOutput struct {
	Orders []OrderOutput `json:"orders"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`

	//フィルタ全体の合計（ページングとは無関係）
	TotalAmountCents int64 `json:"total_amount_cents"`
	TotalQuantity    int64 `json:"total_quantity"`
}

type OrderStatusOutput struct {
	OrderID   int64      `json:"order_id"`
	UserID    int64      `json:"user_id"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// 日付フィルタで受け付ける形式。タイムゾーン付き/なし/日付のみ。
var dateFilterLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDateFilter(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateFilterLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, apperr.Validationf("invalid date format: %s (expected ISO 8601)", s)
}

// ListOrders は絞り込み＋ページングで注文一覧を返す。
// 注文ごとの明細・商品名・ユーザー名はまとめて取得する（注文ごとのクエリは発行しない）。
func (u *OrderUsecase) ListOrders(ctx context.Context, in ListOrdersInput) (OrderListOutput, error) {
	f := repo.OrderListFilter{
		UserID:    in.UserID,
		ProductID: in.ProductID,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}

	if in.Status != "" {
		st, ok := model.ParseOrderStatus(in.Status)
		if !ok {
			return OrderListOutput{}, apperr.Validationf(
				"invalid status %q: must be one of pending, paid, shipped, cancelled", in.Status)
		}
		f.Status = &st
	}

	from, err := parseDateFilter(in.StartDate)
	if err != nil {
		return OrderListOutput{}, err
	}
	f.From = from

	to, err := parseDateFilter(in.EndDate)
	if err != nil {
		return OrderListOutput{}, err
	}
	f.To = to

	if f.Limit < 1 || f.Limit > 100 {
		return OrderListOutput{}, apperr.Validation("limit must be between 1 and 100")
	}
	if f.Offset < 0 {
		return OrderListOutput{}, apperr.Validation("offset must be >= 0")
	}

	orders, total, agg, err := u.orders.ListWithFilters(ctx, f)
	if err != nil {
		return OrderListOutput{}, err
	}

	out := OrderListOutput{
		Orders:           make([]OrderOutput, 0, len(orders)),
		Total:            total,
		Limit:            f.Limit,
		Offset:           f.Offset,
		TotalAmountCents: agg.TotalAmountCents,
		TotalQuantity:    agg.TotalQuantity,
	}

	if len(orders) == 0 {
		return out, nil
	}

	//ページ内全注文の明細を1クエリで取る。
	//product_id指定時は各注文の明細もその商品に絞られる（集計と同じスコープ）。
	orderIDs := make([]int64, 0, len(orders))
	userIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
		userIDs = append(userIDs, o.UserID)
	}

	details, err := u.orderItems.ListByOrderIDs(ctx, orderIDs, in.ProductID)
	if err != nil {
		return OrderListOutput{}, err
	}

	users, err := u.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return OrderListOutput{}, err
	}
	namesByID := make(map[int64]string, len(users))
	for _, usr := range users {
		namesByID[usr.ID] = usr.FullName
	}

	itemsByOrder := make(map[int64][]repo.OrderItemDetail, len(orders))
	for _, d := range details {
		itemsByOrder[d.OrderID] = append(itemsByOrder[d.OrderID], d)
	}

	for _, o := range orders {
		out.Orders = append(out.Orders, toOrderOutput(o, namesByID[o.UserID], itemsByOrder[o.ID]))
	}

	return out, nil
}

// CreateOrder は注文と明細を1トランザクションで作成する。
// 各明細の単価は作成時点の商品単価をスナップショットとして保存する。
// どれか1つでも商品が存在しなければ全てロールバックされ、行は一切残らない。
func (u *OrderUsecase) CreateOrder(ctx context.Context, in CreateOrderInput) (OrderOutput, error) {
	if len(in.Items) == 0 {
		return OrderOutput{}, apperr.Validation("order must contain at least one item")
	}
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return OrderOutput{}, apperr.Validation("item quantity must be greater than zero")
		}
	}

	//ステータス未指定はpending
	if in.Status == "" {
		in.Status = string(model.OrderStatusPending)
	}
	status, ok := model.ParseOrderStatus(in.Status)
	if !ok {
		return OrderOutput{}, apperr.Validationf(
			"invalid status %q: must be one of pending, paid, shipped, cancelled", in.Status)
	}

	//ユーザーの存在確認
	user, err := u.users.FindByID(ctx, in.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, apperr.ErrUserNotFound
	}
	if err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//価格スナップショットはINSERTと同じトランザクション内で読む。
		//作成と競合する価格変更で明細が混ざることはない。
		//存在しない商品が1つでもあれば書き込み前に中断する。
		rows := make([]model.OrderItem, 0, len(in.Items))
		for _, item := range in.Items {
			p, err := r.Products().FindByID(ctx, item.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return apperr.ErrProductNotFound
			}
			if err != nil {
				return err
			}

			rows = append(rows, model.OrderItem{
				ProductID:            item.ProductID,
				Quantity:             item.Quantity,
				PriceCentsAtPurchase: p.PriceCents,
			})
		}

		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:    in.UserID,
			Status:    status,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return err
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, rows); err != nil {
			return err
		}

		//採番されたIDと商品名を載せるため、同一トランザクション内で読み直す
		created, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		details, err := r.OrderItems().ListByOrderIDs(ctx, []int64{orderID}, nil)
		if err != nil {
			return err
		}

		out = toOrderOutput(created, user.FullName, details)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	return out, nil
}

// GetOrder は注文1件を明細・合計付きで返す。
func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (OrderOutput, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, apperr.ErrOrderNotFound
	}
	if err != nil {
		return OrderOutput{}, err
	}

	details, err := u.orderItems.ListByOrderIDs(ctx, []int64{o.ID}, nil)
	if err != nil {
		return OrderOutput{}, err
	}

	user, err := u.users.FindByID(ctx, o.UserID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, err
	}

	return toOrderOutput(o, user.FullName, details), nil
}

// UpdateOrderStatus はステータスとupdated_atを更新し、監査ログを同一トランザクションで残す。
// 遷移グラフは持たない。4値のどれからどれへでも変更できる。
func (u *OrderUsecase) UpdateOrderStatus(ctx context.Context, actorUserID int64, orderID int64, newStatus string) (OrderStatusOutput, error) {
	status, ok := model.ParseOrderStatus(newStatus)
	if !ok {
		return OrderStatusOutput{}, apperr.Validationf(
			"invalid status %q: must be one of pending, paid, shipped, cancelled", newStatus)
	}

	var out OrderStatusOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		now := time.Now()
		if err := r.Orders().UpdateStatus(ctx, orderID, status, now); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return apperr.ErrOrderNotFound
			}
			return err
		}

		beforeJSON, _ := json.Marshal(map[string]string{"status": string(before.Status)})
		afterJSON, _ := json.Marshal(map[string]string{"status": string(status)})
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   string(beforeJSON),
			AfterJSON:    string(afterJSON),
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		//サーバーが入れたupdated_atを返すため読み直す
		after, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		out = OrderStatusOutput{
			OrderID:   after.ID,
			UserID:    after.UserID,
			Status:    string(after.Status),
			CreatedAt: after.CreatedAt,
			UpdatedAt: after.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return OrderStatusOutput{}, err
	}

	return out, nil
}

// DeleteOrder は注文と明細をまとめて消す。明細の孤児は残らない。
func (u *OrderUsecase) DeleteOrder(ctx context.Context, orderID int64) error {
	err := u.orders.Delete(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.ErrOrderNotFound
	}
	return err
}

func toOrderOutput(o model.Order, userName string, details []repo.OrderItemDetail) OrderOutput {
	items := make([]OrderItemOutput, 0, len(details))
	var totalAmount int64
	var totalQty int64

	for _, d := range details {
		items = append(items, OrderItemOutput{
			ID:                   d.ID,
			ProductID:            d.ProductID,
			Quantity:             d.Quantity,
			PriceCentsAtPurchase: d.PriceCentsAtPurchase,
			ProductName:          d.ProductName,
		})
		totalAmount += d.Quantity * d.PriceCentsAtPurchase
		totalQty += d.Quantity
	}

	return OrderOutput{
		OrderID:          o.ID,
		UserID:           o.UserID,
		UserName:         userName,
		Status:           string(o.Status),
		CreatedAt:        o.CreatedAt,
		Items:            items,
		TotalAmountCents: totalAmount,
		TotalQuantity:    totalQty,
	}
}
