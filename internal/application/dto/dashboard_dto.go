package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	KPIs   DashboardKPIs   `json:"kpis"`
	Charts DashboardCharts `json:"charts"`
}

// DashboardKPIs indicadores del rango. Montos redondeados a 2 decimales.
type DashboardKPIs struct {
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`         // suma bruta de COMPLETED
	NumberOfTransactions int             `json:"numberOfTransactions"` // cantidad de COMPLETED
	AverageOrderValue    decimal.Decimal `json:"averageOrderValue"`    // 0 si no hay ventas
	NumberOfRefunds      int             `json:"numberOfRefunds"`
	RefundedAmount       decimal.Decimal `json:"refundedAmount"`
	TopPaymentMethod     string          `json:"topPaymentMethod"` // "N/A" si no hay ventas
}

// DashboardCharts series para las gráficas.
type DashboardCharts struct {
	RevenueOverTime        []PeriodRevenueDTO `json:"revenueOverTime"`        // ascendente por periodo
	RevenueByPaymentMethod []MethodRevenueDTO `json:"revenueByPaymentMethod"` // orden de aparición
}

// PeriodRevenueDTO ingreso de un periodo (YYYY-MM-DD, YYYY-MM o YYYY).
type PeriodRevenueDTO struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
}

// MethodRevenueDTO ingreso por medio de pago.
type MethodRevenueDTO struct {
	Method  string          `json:"method"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DashboardQuery parámetros de GET /api/dashboard/summary.
type DashboardQuery struct {
	From    string `query:"from" validate:"required"`
	To      string `query:"to" validate:"required"`
	GroupBy string `query:"groupBy" validate:"omitempty,oneof=daily monthly yearly"`
}
