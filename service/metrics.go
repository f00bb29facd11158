package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Metrics นับจำนวนและยอดของรายการ credit ที่ถูกบันทึกจริง
type Metrics struct {
	changesTotal         *prometheus.CounterVec
	amountTotal          *prometheus.CounterVec
	expirationsTotal     prometheus.Counter
	couponConflictsTotal prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		changesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storecredit_changes_total",
			Help: "Number of credit balance changes applied.",
		}, []string{"direction"}),
		amountTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storecredit_amount_total",
			Help: "Absolute amount of credit applied.",
		}, []string{"direction"}),
		expirationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storecredit_expirations_total",
			Help: "Number of credit balances wiped by expiration.",
		}),
		couponConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storecredit_coupon_conflicts_total",
			Help: "Number of coupon uses rejected because credit was in use.",
		}),
	}
	reg.MustRegister(m.changesTotal, m.amountTotal, m.expirationsTotal, m.couponConflictsTotal)
	return m
}

func (m *Metrics) ObserveChange(amount decimal.Decimal) {
	direction := "credit"
	if amount.IsNegative() {
		direction = "debit"
	}
	m.changesTotal.WithLabelValues(direction).Inc()
	m.amountTotal.WithLabelValues(direction).Add(amount.Abs().InexactFloat64())
}

func (m *Metrics) ObserveExpiration() {
	m.expirationsTotal.Inc()
}

func (m *Metrics) ObserveCouponConflict() {
	m.couponConflictsTotal.Inc()
}
