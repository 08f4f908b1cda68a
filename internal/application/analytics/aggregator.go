package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-admin/internal/application/dto"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/pricing"
)

// GroupBy granularidad de la serie temporal.
type GroupBy string

const (
	GroupDaily   GroupBy = "daily"
	GroupMonthly GroupBy = "monthly"
	GroupYearly  GroupBy = "yearly"
)

// NoPaymentMethod valor de topPaymentMethod cuando no hay ventas completadas.
const NoPaymentMethod = "N/A"

// ParseGroupBy acepta daily, monthly o yearly.
func ParseGroupBy(s string) (GroupBy, bool) {
	switch g := GroupBy(s); g {
	case GroupDaily, GroupMonthly, GroupYearly:
		return g, true
	}
	return "", false
}

// PeriodKey clave del periodo en UTC: YYYY-MM-DD, YYYY-MM o YYYY.
// El orden lexicográfico de las claves coincide con el cronológico.
func (g GroupBy) PeriodKey(t time.Time) string {
	t = t.UTC()
	switch g {
	case GroupMonthly:
		return t.Format("2006-01")
	case GroupYearly:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

// Summarize calcula KPIs y series a partir de las ventas del rango. Es puro: no consulta nada.
//
// Solo COMPLETED suma ingresos; REFUNDED alimenta los KPIs de devoluciones y VOIDED se ignora.
// Las sumas se hacen sin redondear y cada valor de salida se redondea a 2 decimales.
// En topPaymentMethod los empates los gana el medio que apareció primero.
func Summarize(list []*entity.Transaction, groupBy GroupBy) dto.DashboardSummaryDTO {
	var (
		revenue      = decimal.Zero
		refunded     = decimal.Zero
		completed    int
		refunds      int
		methodOrder  []entity.PaymentMethod
		methodCount  = map[entity.PaymentMethod]int{}
		methodAmount = map[entity.PaymentMethod]decimal.Decimal{}
		periodAmount = map[string]decimal.Decimal{}
	)

	for _, t := range list {
		switch t.Status {
		case entity.TransactionStatusCompleted:
			completed++
			revenue = revenue.Add(t.GrossAmount)
			if _, seen := methodCount[t.PaymentMethod]; !seen {
				methodOrder = append(methodOrder, t.PaymentMethod)
				methodAmount[t.PaymentMethod] = decimal.Zero
			}
			methodCount[t.PaymentMethod]++
			methodAmount[t.PaymentMethod] = methodAmount[t.PaymentMethod].Add(t.GrossAmount)

			key := groupBy.PeriodKey(t.DateTime)
			periodAmount[key] = periodAmount[key].Add(t.GrossAmount)
		case entity.TransactionStatusRefunded:
			refunds++
			refunded = refunded.Add(t.GrossAmount)
		}
	}

	average := decimal.Zero
	top := NoPaymentMethod
	if completed > 0 {
		average = revenue.Div(decimal.NewFromInt(int64(completed)))
		best := 0
		for _, m := range methodOrder {
			if methodCount[m] > best {
				best = methodCount[m]
				top = string(m)
			}
		}
	}

	periods := make([]string, 0, len(periodAmount))
	for k := range periodAmount {
		periods = append(periods, k)
	}
	sort.Strings(periods)
	overTime := make([]dto.PeriodRevenueDTO, 0, len(periods))
	for _, k := range periods {
		overTime = append(overTime, dto.PeriodRevenueDTO{Period: k, Revenue: pricing.Round2(periodAmount[k])})
	}

	byMethod := make([]dto.MethodRevenueDTO, 0, len(methodOrder))
	for _, m := range methodOrder {
		byMethod = append(byMethod, dto.MethodRevenueDTO{Method: string(m), Revenue: pricing.Round2(methodAmount[m])})
	}

	return dto.DashboardSummaryDTO{
		KPIs: dto.DashboardKPIs{
			TotalRevenue:         pricing.Round2(revenue),
			NumberOfTransactions: completed,
			AverageOrderValue:    pricing.Round2(average),
			NumberOfRefunds:      refunds,
			RefundedAmount:       pricing.Round2(refunded),
			TopPaymentMethod:     top,
		},
		Charts: dto.DashboardCharts{
			RevenueOverTime:        overTime,
			RevenueByPaymentMethod: byMethod,
		},
	}
}
