package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products  ProductRepository
	History   ProductHistoryRepository
	Movements StockMovementRepository
	Sales     SaleRepository
	Purchases PurchaseRepository
	Users     AuthorizedUserRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
