package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Products() ProductRepository
	Users() UserRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返したら全てロールバックされる（途中で書いた行も残らない）。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
