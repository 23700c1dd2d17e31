package service

import (
	"context"

	"github.com/ndewijer/portfolio-insights/internal/model"
	"github.com/ndewijer/portfolio-insights/internal/repository"
)

// TransactionService exposes the stored, normalized transactions.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
	}
}

// GetTransactions returns the stored transactions matching filter in import order.
func (s *TransactionService) GetTransactions(ctx context.Context, filter repository.TransactionFilter) ([]model.Transaction, error) {
	return s.transactionRepo.GetTransactions(ctx, filter)
}
