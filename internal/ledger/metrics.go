package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricWagersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_wagers_total",
		Help: "Settled wagers by game.",
	}, []string{"game"})
	metricWagerStakeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_wager_stake_total",
		Help: "Sum of settled stakes by game.",
	}, []string{"game"})
	metricWagerPayoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_wager_payout_total",
		Help: "Sum of settled payouts by game.",
	}, []string{"game"})
	metricTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_ledger_transactions_total",
		Help: "Settled ledger transactions by kind and method.",
	}, []string{"kind", "method"})
	metricRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_ledger_rejections_total",
		Help: "Rejected ledger operations by reason.",
	}, []string{"op", "reason"})
)

func reject(op string, err error) error {
	metricRejectionsTotal.WithLabelValues(op, reasonOf(err)).Inc()
	return err
}
