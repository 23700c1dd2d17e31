package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-insights/internal/fx"
	"github.com/ndewijer/portfolio-insights/internal/model"
	"github.com/ndewijer/portfolio-insights/internal/portfolio"
	"github.com/ndewijer/portfolio-insights/internal/repository"
	"github.com/ndewijer/portfolio-insights/internal/returns"
)

// ReturnsService computes TWR and XIRR, either on explicit series or on the
// stored transaction history.
type ReturnsService struct {
	transactionRepo *repository.TransactionRepository
	rates           portfolio.RateSource
	logger          zerolog.Logger
	now             func() time.Time
}

// NewReturnsService creates a new ReturnsService.
func NewReturnsService(
	transactionRepo *repository.TransactionRepository,
	rates portfolio.RateSource,
	logger zerolog.Logger,
) *ReturnsService {
	return &ReturnsService{
		transactionRepo: transactionRepo,
		rates:           rates,
		logger:          logger.With().Str("component", "returns").Logger(),
		now:             time.Now,
	}
}

// WithClock sets the time source used to date the terminal portfolio value.
func (s *ReturnsService) WithClock(now func() time.Time) *ReturnsService {
	s.now = now
	return s
}

// ComputeTWR returns the time-weighted return of an equity series.
func (s *ReturnsService) ComputeTWR(points []model.EquityPoint, flows map[string]float64) model.ReturnResult {
	return returns.ComputeTWR(points, flows)
}

// ComputeXIRR returns the money-weighted return of explicit cash flows.
func (s *ReturnsService) ComputeXIRR(flows []model.CashFlow) model.ReturnResult {
	return returns.ComputeXIRR(flows)
}

// PortfolioXIRR returns the money-weighted return of the stored history in base.
//
// Deposits and withdrawals are the investor flows, each converted into base
// with the current rate table. The current base-currency value of the
// portfolio closes the series as an inflow dated now.
func (s *ReturnsService) PortfolioXIRR(ctx context.Context, base string) (model.PortfolioReturn, error) {
	txs, err := s.transactionRepo.GetTransactions(ctx, repository.TransactionFilter{})
	if err != nil {
		return model.PortfolioReturn{}, fmt.Errorf("failed to load transactions: %w", err)
	}

	base = strings.ToUpper(strings.TrimSpace(base))
	snapshot := s.rates.GetRates(ctx, base)

	converted := make([]model.Transaction, len(txs))
	for i, tx := range txs {
		tx.Amount = fx.Convert(tx.Amount, tx.CurrencyOfAmount, base, snapshot)
		tx.CurrencyOfAmount = base
		converted[i] = tx
	}
	flows := returns.ExternalFlows(converted)

	asOf := s.now().UTC()
	rows := portfolio.ValueAndWeightsInBase(ctx, txs, base, staticSource(snapshot), s.logger)
	terminal := portfolio.TotalValue(rows)
	if terminal != 0 {
		flows = append(flows, model.CashFlow{Date: asOf, Amount: terminal})
	}

	result := returns.ComputeXIRR(flows)
	if !result.IsDetermined() {
		s.logger.Info().
			Str("base", base).
			Int("flows", len(flows)).
			Str("reason", result.Reason).
			Msg("Portfolio XIRR undetermined")
	}

	return model.PortfolioReturn{
		Base:          base,
		AsOf:          asOf,
		TerminalValue: round(terminal),
		Flows:         flows,
		Result:        result,
	}, nil
}
