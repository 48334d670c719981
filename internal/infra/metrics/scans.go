package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(quotaResets, quotaBlocks, scansConsumed) }

var (
	quotaResets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scan_quota_resets_total",
			Help: "Count of rolling-window quota resets persisted by reads.",
		},
	)

	quotaBlocks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scan_quota_blocks_total",
			Help: "Count of scans blocked by a reached monthly limit.",
		},
	)

	scansConsumed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scans_consumed_total",
			Help: "Count of scans consumed against account quotas.",
		},
	)
)

func IncQuotaReset()   { quotaResets.Inc() }
func IncQuotaBlocked() { quotaBlocks.Inc() }
func IncScanConsumed() { scansConsumed.Inc() }
