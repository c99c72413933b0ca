package handler

import (
	categoriesdomain "fintrack-api/internal/domain/categories"
	reportsdomain "fintrack-api/internal/domain/reports"
	transactionsdomain "fintrack-api/internal/domain/transactions"
	"fintrack-api/pkg/logger"
)

type Handlers struct {
	Categories   *categoriesdomain.Service
	Transactions *transactionsdomain.Service
	Reports      *reportsdomain.Service

	log logger.Logger
	// exposeErrors widens 500 responses with the underlying error text;
	// enabled outside production only.
	exposeErrors bool
}

func New(categories *categoriesdomain.Service, transactions *transactionsdomain.Service, reports *reportsdomain.Service, log logger.Logger, exposeErrors bool) *Handlers {
	return &Handlers{
		Categories:   categories,
		Transactions: transactions,
		Reports:      reports,
		log:          log,
		exposeErrors: exposeErrors,
	}
}
