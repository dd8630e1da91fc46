package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

type stubAnalytics struct {
	counts     map[string]int
	revenue    decimal.Decimal
	low        []repository.LowStockPart
	value      decimal.Decimal
	revenueErr error

	revenueStart, revenueEnd time.Time
	threshold                int
}

func (s *stubAnalytics) CountOrdersByStatus(context.Context) (map[string]int, error) {
	return s.counts, nil
}

func (s *stubAnalytics) GetCompletedRevenue(_ context.Context, start, end time.Time) (decimal.Decimal, error) {
	s.revenueStart, s.revenueEnd = start, end
	return s.revenue, s.revenueErr
}

func (s *stubAnalytics) GetLowStockParts(_ context.Context, threshold, _ int) ([]repository.LowStockPart, error) {
	s.threshold = threshold
	return s.low, nil
}

func (s *stubAnalytics) GetInventoryValue(context.Context) (decimal.Decimal, error) {
	return s.value, nil
}

func (s *stubAnalytics) GetPartConsumption(context.Context, time.Time, time.Time) (map[string]int, error) {
	return nil, nil
}

func TestDashboard_GetSummaryCombinaConsultas(t *testing.T) {
	repo := &stubAnalytics{
		counts:  map[string]int{"open": 2, "in_progress": 1, "completed": 5},
		revenue: decimal.RequireFromString("1234.567"),
		low:     []repository.LowStockPart{{PartID: "p1", Name: "Filtro", StockQuantity: 1}},
		value:   decimal.NewFromInt(900),
	}
	uc := NewDashboardUseCase(repo, 3)
	uc.now = func() time.Time { return time.Date(2026, time.February, 14, 10, 0, 0, 0, time.UTC) }

	res, err := uc.GetSummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, res.OpenOrders)
	assert.Equal(t, 0, res.OrdersByStatus["cancelled"])
	assert.Len(t, res.OrdersByStatus, 4)
	assert.True(t, decimal.RequireFromString("1234.57").Equal(res.MonthlyRevenue))
	assert.Equal(t, 3, repo.threshold)
	require.Len(t, res.LowStockParts, 1)
	assert.Equal(t, "Filtro", res.LowStockParts[0].Name)
	assert.Equal(t, "Febrero 2026", res.DateLabel)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), repo.revenueStart)
	assert.Equal(t, 14, repo.revenueEnd.Day())
}

func TestDashboard_GetSummaryPropagaError(t *testing.T) {
	boom := errors.New("boom")
	uc := NewDashboardUseCase(&stubAnalytics{revenueErr: boom}, 5)

	_, err := uc.GetSummary(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Diciembre 2025", monthLabel(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)))
}
