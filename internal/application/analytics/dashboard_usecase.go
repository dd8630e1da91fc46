// Package analytics contiene los casos de uso de lectura para el dashboard del taller.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

const dashboardLowStockLimit = 10 // piezas en el widget de stock bajo

// DashboardUseCase genera el resumen de órdenes e inventario del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo     repository.AnalyticsRepository
	lowStockThreshold int
	now               func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, lowStockThreshold int) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, lowStockThreshold: lowStockThreshold, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro llamadas en paralelo:
//  1. CountOrdersByStatus          → OrdersByStatus + OpenOrders
//  2. GetCompletedRevenue(mes)     → MonthlyRevenue
//  3. GetLowStockParts(umbral)     → LowStockParts
//  4. GetInventoryValue            → InventoryValue
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	type statusResult struct {
		counts map[string]int
		err    error
	}
	type amountResult struct {
		value decimal.Decimal
		err   error
	}
	type lowStockResult struct {
		parts []repository.LowStockPart
		err   error
	}

	statusCh := make(chan statusResult, 1)
	revenueCh := make(chan amountResult, 1)
	lowCh := make(chan lowStockResult, 1)
	valueCh := make(chan amountResult, 1)

	go func() {
		counts, err := uc.analyticsRepo.CountOrdersByStatus(ctx)
		statusCh <- statusResult{counts, err}
	}()
	go func() {
		rev, err := uc.analyticsRepo.GetCompletedRevenue(ctx, monthStart, monthEnd)
		revenueCh <- amountResult{rev, err}
	}()
	go func() {
		parts, err := uc.analyticsRepo.GetLowStockParts(ctx, uc.lowStockThreshold, dashboardLowStockLimit)
		lowCh <- lowStockResult{parts, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.GetInventoryValue(ctx)
		valueCh <- amountResult{v, err}
	}()

	status := <-statusCh
	revenue := <-revenueCh
	low := <-lowCh
	value := <-valueCh

	if status.err != nil {
		return nil, fmt.Errorf("dashboard: órdenes por estado: %w", status.err)
	}
	if revenue.err != nil {
		return nil, fmt.Errorf("dashboard: ingresos del mes: %w", revenue.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if value.err != nil {
		return nil, fmt.Errorf("dashboard: valor del inventario: %w", value.err)
	}

	counts := make(map[string]int, 4)
	for _, s := range []string{entity.OrderStatusOpen, entity.OrderStatusInProgress, entity.OrderStatusCompleted, entity.OrderStatusCancelled} {
		counts[s] = status.counts[s]
	}
	lowParts := make([]dto.LowStockPartDTO, 0, len(low.parts))
	for _, p := range low.parts {
		lowParts = append(lowParts, dto.LowStockPartDTO{PartID: p.PartID, Name: p.Name, StockQuantity: p.StockQuantity})
	}

	return &dto.DashboardSummaryDTO{
		OrdersByStatus:    counts,
		OpenOrders:        counts[entity.OrderStatusOpen] + counts[entity.OrderStatusInProgress],
		MonthlyRevenue:    revenue.value.Round(2),
		LowStockThreshold: uc.lowStockThreshold,
		LowStockParts:     lowParts,
		InventoryValue:    value.value.Round(2),
		DateLabel:         monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
