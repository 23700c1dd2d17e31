package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ndewijer/portfolio-insights/internal/model"
)

// MockFxClient is a mock implementation of fx.Client for testing.
// It returns predefined rate tables instead of making actual API calls.
type MockFxClient struct {
	mu sync.Mutex
	// Rates maps an upper-cased base currency to its rate table.
	Rates map[string]map[string]float64
	// MockError is returned by FetchRates when set
	MockError error
	// Delay blocks every fetch for the given duration
	Delay time.Duration
	// QueryCount tracks how many times FetchRates was called per base
	QueryCount map[string]int
}

// NewMockFxClient creates a mock client with EUR and USD rate tables.
func NewMockFxClient() *MockFxClient {
	return &MockFxClient{
		Rates: map[string]map[string]float64{
			"EUR": {"EUR": 1, "USD": 1.25, "GBP": 0.8},
			"USD": {"USD": 1, "EUR": 0.8, "GBP": 0.64},
		},
		QueryCount: make(map[string]int),
	}
}

// FetchRates returns the configured rates for base, or MockError.
func (m *MockFxClient) FetchRates(_ context.Context, base string) (model.FxSnapshot, error) {
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	base = strings.ToUpper(base)
	m.QueryCount[base]++
	if m.MockError != nil {
		return model.FxSnapshot{}, m.MockError
	}

	rates := make(map[string]float64, len(m.Rates[base]))
	for code, rate := range m.Rates[base] {
		rates[code] = rate
	}
	return model.FxSnapshot{Base: base, Date: "2024-05-03", Rates: rates}, nil
}

// WithError configures the mock to return the specified error.
func (m *MockFxClient) WithError(err error) *MockFxClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MockError = err
	return m
}

// Calls returns how many fetches were issued for base.
func (m *MockFxClient) Calls(base string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QueryCount[strings.ToUpper(base)]
}

// FakeClock is a settable time source for cache expiry tests.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock starts a clock at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
