package usecase

import (
	"context"
	"sort"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// memStore は全repositoryのin-memory実装を束ねたもの。
// WithinTx はスナップショットを取り、fnがエラーを返したら巻き戻す。
// 実DBのrollbackと同じく、失敗した作成は行を一切残さない。
type memStore struct {
	users    map[int64]model.User
	products map[int64]model.Product
	orders   map[int64]model.Order
	items    map[int64]model.OrderItem
	audits   []model.AuditLog

	nextUserID    int64
	nextProductID int64
	nextOrderID   int64
	nextItemID    int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]model.User{},
		products: map[int64]model.Product{},
		orders:   map[int64]model.Order{},
		items:    map[int64]model.OrderItem{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	c.audits = append(c.audits, s.audits...)
	c.nextUserID = s.nextUserID
	c.nextProductID = s.nextProductID
	c.nextOrderID = s.nextOrderID
	c.nextItemID = s.nextItemID
	return c
}

// ---- テスト用シード ----

func (s *memStore) seedUser(fullName, email string) model.User {
	s.nextUserID++
	u := model.User{ID: s.nextUserID, Email: email, FullName: fullName, CreatedAt: time.Now()}
	s.users[u.ID] = u
	return u
}

func (s *memStore) seedProduct(name string, priceCents int64) model.Product {
	s.nextProductID++
	p := model.Product{ID: s.nextProductID, Name: name, PriceCents: priceCents, CreatedAt: time.Now()}
	s.products[p.ID] = p
	return p
}

// ---- TransactionManager / TxRepos ----

func (s *memStore) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	snapshot := s.clone()
	if err := fn(s); err != nil {
		*s = *snapshot
		return err
	}
	return nil
}

func (s *memStore) Orders() repo.OrderRepository         { return memOrders{s} }
func (s *memStore) OrderItems() repo.OrderItemRepository { return memOrderItems{s} }
func (s *memStore) Products() repo.ProductRepository     { return memProducts{s} }
func (s *memStore) Users() repo.UserRepository           { return memUsers{s} }
func (s *memStore) AuditLogs() repo.AuditLogRepository   { return memAuditLogs{s} }

// ---- UserRepository ----

type memUsers struct{ s *memStore }

func (r memUsers) Create(ctx context.Context, user *model.User) error {
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r memUsers) FindByID(ctx context.Context, userID int64) (model.User, error) {
	u, ok := r.s.users[userID]
	if !ok {
		return model.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r memUsers) FindByEmail(ctx context.Context, email string) (model.User, bool, error) {
	for _, id := range sortedKeys(r.s.users) {
		if r.s.users[id].Email == email {
			return r.s.users[id], true, nil
		}
	}
	return model.User{}, false, nil
}

func (r memUsers) FindByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	out := make([]model.User, 0, len(ids))
	seen := map[int64]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := r.s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r memUsers) List(ctx context.Context, limit int, offset int) ([]model.User, int64, error) {
	ids := sortedKeys(r.s.users)
	out := make([]model.User, 0)
	for _, id := range pageOf(ids, limit, offset) {
		out = append(out, r.s.users[id])
	}
	return out, int64(len(ids)), nil
}

// ---- ProductRepository ----

type memProducts struct{ s *memStore }

func (r memProducts) Create(ctx context.Context, p model.Product) (model.Product, error) {
	r.s.nextProductID++
	p.ID = r.s.nextProductID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.s.products[p.ID] = p
	return p, nil
}

func (r memProducts) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r memProducts) Update(ctx context.Context, p model.Product) error {
	cur, ok := r.s.products[p.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Name = p.Name
	cur.PriceCents = p.PriceCents
	cur.UpdatedAt = time.Now()
	r.s.products[p.ID] = cur
	return nil
}

func (r memProducts) List(ctx context.Context, limit int, offset int) ([]model.Product, int64, error) {
	ids := sortedKeys(r.s.products)
	out := make([]model.Product, 0)
	for _, id := range pageOf(ids, limit, offset) {
		out = append(out, r.s.products[id])
	}
	return out, int64(len(ids)), nil
}

// ---- OrderRepository ----

type memOrders struct{ s *memStore }

func (r memOrders) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	o, ok := r.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func matchesOrderFilter(o model.Order, f repo.OrderListFilter) bool {
	if f.Status != nil && o.Status != *f.Status {
		return false
	}
	if f.UserID != nil && o.UserID != *f.UserID {
		return false
	}
	if f.From != nil && o.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && o.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

func (r memOrders) orderHasProduct(orderID int64, productID int64) bool {
	for _, it := range r.s.items {
		if it.OrderID == orderID && it.ProductID == productID {
			return true
		}
	}
	return false
}

func (r memOrders) ListWithFilters(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, repo.OrderAggregates, error) {
	matched := make([]model.Order, 0)
	for _, id := range sortedKeys(r.s.orders) {
		o := r.s.orders[id]
		if !matchesOrderFilter(o, f) {
			continue
		}
		if f.ProductID != nil && !r.orderHasProduct(o.ID, *f.ProductID) {
			continue
		}
		matched = append(matched, o)
	}
	total := int64(len(matched))

	//集計はページングと無関係に全該当明細を合計する
	var agg repo.OrderAggregates
	for _, itemID := range sortedKeys(r.s.items) {
		it := r.s.items[itemID]
		o, ok := r.s.orders[it.OrderID]
		if !ok || !matchesOrderFilter(o, f) {
			continue
		}
		if f.ProductID != nil {
			if !r.orderHasProduct(o.ID, *f.ProductID) {
				continue
			}
			if it.ProductID != *f.ProductID {
				continue
			}
		}
		agg.TotalAmountCents += it.Quantity * it.PriceCentsAtPurchase
		agg.TotalQuantity += it.Quantity
	}

	start := f.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, agg, nil
}

func (r memOrders) Create(ctx context.Context, order model.Order) (int64, error) {
	r.s.nextOrderID++
	order.ID = r.s.nextOrderID
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	r.s.orders[order.ID] = order
	return order.ID, nil
}

func (r memOrders) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, updatedAt time.Time) error {
	o, ok := r.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = &updatedAt
	r.s.orders[orderID] = o
	return nil
}

func (r memOrders) Delete(ctx context.Context, orderID int64) error {
	if _, ok := r.s.orders[orderID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.orders, orderID)
	for id, it := range r.s.items {
		if it.OrderID == orderID {
			delete(r.s.items, id)
		}
	}
	return nil
}

// ---- OrderItemRepository ----

type memOrderItems struct{ s *memStore }

func (r memOrderItems) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	for i := range items {
		r.s.nextItemID++
		items[i].ID = r.s.nextItemID
		items[i].OrderID = orderID
		r.s.items[items[i].ID] = items[i]
	}
	return nil
}

func (r memOrderItems) ListByOrderIDs(ctx context.Context, orderIDs []int64, productID *int64) ([]repo.OrderItemDetail, error) {
	want := map[int64]bool{}
	for _, id := range orderIDs {
		want[id] = true
	}

	out := make([]repo.OrderItemDetail, 0)
	for _, itemID := range sortedKeys(r.s.items) {
		it := r.s.items[itemID]
		if !want[it.OrderID] {
			continue
		}
		if productID != nil && it.ProductID != *productID {
			continue
		}
		out = append(out, repo.OrderItemDetail{
			ID:                   it.ID,
			OrderID:              it.OrderID,
			ProductID:            it.ProductID,
			Quantity:             it.Quantity,
			PriceCentsAtPurchase: it.PriceCentsAtPurchase,
			ProductName:          r.s.products[it.ProductID].Name,
		})
	}
	return out, nil
}

// ---- AuditLogRepository ----

type memAuditLogs struct{ s *memStore }

func (r memAuditLogs) Create(ctx context.Context, log model.AuditLog) error {
	log.ID = int64(len(r.s.audits) + 1)
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.s.audits = append(r.s.audits, log)
	return nil
}

// ---- helpers ----

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func pageOf(ids []int64, limit int, offset int) []int64 {
	if offset > len(ids) {
		offset = len(ids)
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end]
}
