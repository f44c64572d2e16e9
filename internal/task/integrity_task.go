package task

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"channel_admin_v1/internal/api/dto"
)

// IntegrityChecker 完整性检查
type IntegrityChecker interface {
	Check(ctx context.Context, prune bool) (*dto.IntegrityReport, error)
}

// IntegrityTask 悬空关联巡检任务
type IntegrityTask struct {
	checker IntegrityChecker
	prune   bool
	spec    string
	timeout time.Duration
	logger  *zap.Logger
	Cron    *cron.Cron
}

// NewIntegrityTask 创建巡检任务；spec 为 6 段 cron 表达式（含秒）
func NewIntegrityTask(checker IntegrityChecker, spec string, prune bool, logger *zap.Logger) *IntegrityTask {
	return &IntegrityTask{
		checker: checker,
		prune:   prune,
		spec:    spec,
		timeout: time.Minute,
		logger:  logger.Named("integrity_task"),
		Cron:    cron.New(cron.WithSeconds()),
	}
}

// Start 注册定时任务并启动
func (t *IntegrityTask) Start() error {
	_, err := t.Cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		_, _ = t.Execute(ctx)
	})
	if err != nil {
		return fmt.Errorf("无效的巡检 cron 表达式 %q: %w", t.spec, err)
	}

	t.Cron.Start()
	t.logger.Info("integrity task started", zap.String("spec", t.spec), zap.Bool("prune", t.prune))
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (t *IntegrityTask) Stop() {
	<-t.Cron.Stop().Done()
}

// Execute 执行一次巡检
func (t *IntegrityTask) Execute(ctx context.Context) (*dto.IntegrityReport, error) {
	timer := prometheus.NewTimer(taskDuration.WithLabelValues("integrity"))
	defer timer.ObserveDuration()

	report, err := t.checker.Check(ctx, t.prune)
	observeRun("integrity", err)
	if err != nil {
		t.logger.Error("integrity check failed", zap.Error(err))
		return nil, err
	}

	linksTotal.Set(float64(report.TotalLinks - report.Pruned))
	orphanLinks.Set(float64(len(report.OrphanLinks)))

	t.logger.Info("integrity check finished",
		zap.Int("links", report.TotalLinks),
		zap.Int("orphans", len(report.OrphanLinks)),
		zap.Int("pruned", report.Pruned))
	return report, nil
}
