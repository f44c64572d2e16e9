package task

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	taskRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channel_admin_task_runs_total",
			Help: "Scheduled maintenance runs",
		},
		[]string{"task", "status"},
	)
	taskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "channel_admin_task_duration_seconds",
			Help:    "Maintenance run time",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"task"},
	)
	linksTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "channel_admin_links", Help: "Customer-channel links at last integrity check"},
	)
	orphanLinks = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "channel_admin_orphan_links", Help: "Orphan links found at last integrity check"},
	)

	registerOnce sync.Once
)

// RegisterMetrics 注册任务指标，可重复调用
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(taskRuns, taskDuration, linksTotal, orphanLinks)
	})
}

func observeRun(task string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	taskRuns.WithLabelValues(task, status).Inc()
}
