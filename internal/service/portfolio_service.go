package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-insights/internal/model"
	"github.com/ndewijer/portfolio-insights/internal/portfolio"
	"github.com/ndewijer/portfolio-insights/internal/repository"
)

// PortfolioService computes positions and allocations over the full stored
// transaction history. Nothing is cached: every call refolds the history.
type PortfolioService struct {
	transactionRepo *repository.TransactionRepository
	rates           portfolio.RateSource
	logger          zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService.
//
// Parameters:
//   - transactionRepo: Source of the stored transactions
//   - rates: Exchange-rate source for the base-currency view, usually *fx.Provider
//   - logger: Receives FX fallback warnings
func NewPortfolioService(
	transactionRepo *repository.TransactionRepository,
	rates portfolio.RateSource,
	logger zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		transactionRepo: transactionRepo,
		rates:           rates,
		logger:          logger.With().Str("component", "portfolio").Logger(),
	}
}

// GetPositions returns the open positions, sorted by key.
func (s *PortfolioService) GetPositions(ctx context.Context) ([]model.Position, error) {
	txs, err := s.loadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return portfolio.BuildPositions(txs), nil
}

// GetAllocation returns the allocation weighted within each currency.
func (s *PortfolioService) GetAllocation(ctx context.Context) (model.AllocationReport, error) {
	txs, err := s.loadTransactions(ctx)
	if err != nil {
		return model.AllocationReport{}, err
	}
	rows := portfolio.ValueAndWeightsByCurrency(txs)
	return s.report(rows), nil
}

// GetAllocationInBase returns the allocation converted into base and weighted
// against one global total.
func (s *PortfolioService) GetAllocationInBase(ctx context.Context, base string) (model.AllocationReport, error) {
	txs, err := s.loadTransactions(ctx)
	if err != nil {
		return model.AllocationReport{}, err
	}

	base = strings.ToUpper(strings.TrimSpace(base))
	snapshot := s.rates.GetRates(ctx, base)
	rows := portfolio.ValueAndWeightsInBase(ctx, txs, base, staticSource(snapshot), s.logger)

	report := s.report(rows)
	report.Base = base
	report.FxDate = snapshot.Date
	report.FxFallback = snapshot.Fallback
	return report, nil
}

func (s *PortfolioService) loadTransactions(ctx context.Context) ([]model.Transaction, error) {
	txs, err := s.transactionRepo.GetTransactions(ctx, repository.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return txs, nil
}

func (s *PortfolioService) report(rows []model.AllocationRow) model.AllocationReport {
	deviations := portfolio.CheckWeights(rows, portfolio.DefaultWeightTolerance)
	if len(deviations) > 0 {
		for _, d := range deviations {
			s.logger.Warn().
				Str("currency", d.Currency).
				Float64("sum", d.Sum).
				Msg("Allocation weights do not add up to 100%")
		}
	} else {
		deviations = []model.WeightDeviation{}
	}

	totals := make(map[string]float64)
	for _, row := range rows {
		totals[row.Currency] += row.Value
	}
	for ccy, total := range totals {
		totals[ccy] = round(total)
	}

	return model.AllocationReport{
		Totals: totals,
		Rows:   roundRows(rows),
		WeightCheck: model.WeightCheck{
			Tolerance:  portfolio.DefaultWeightTolerance,
			OK:         len(deviations) == 0,
			Deviations: deviations,
		},
	}
}

// staticSource serves one already fetched snapshot, so a report is built from
// a single consistent rate table.
type staticSource model.FxSnapshot

func (s staticSource) GetRates(_ context.Context, _ string) model.FxSnapshot {
	return model.FxSnapshot(s)
}
