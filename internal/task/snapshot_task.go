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

// SnapshotExporter 快照导出
type SnapshotExporter interface {
	Export(ctx context.Context) (*dto.SnapshotInfo, error)
}

// SnapshotTask 定时快照任务
type SnapshotTask struct {
	exporter SnapshotExporter
	spec     string
	timeout  time.Duration
	logger   *zap.Logger
	Cron     *cron.Cron

	// 导出成功后回调，用于同步手动导出的冷却
	onExported func()
}

// NewSnapshotTask 创建快照任务
func NewSnapshotTask(exporter SnapshotExporter, spec string, logger *zap.Logger) *SnapshotTask {
	return &SnapshotTask{
		exporter: exporter,
		spec:     spec,
		timeout:  5 * time.Minute,
		logger:   logger.Named("snapshot_task"),
		Cron:     cron.New(cron.WithSeconds()),
	}
}

// Start 注册定时任务并启动
func (t *SnapshotTask) Start() error {
	_, err := t.Cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		_, _ = t.Execute(ctx)
	})
	if err != nil {
		return fmt.Errorf("无效的快照 cron 表达式 %q: %w", t.spec, err)
	}

	t.Cron.Start()
	t.logger.Info("snapshot task started", zap.String("spec", t.spec))
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (t *SnapshotTask) Stop() {
	<-t.Cron.Stop().Done()
}

// Execute 立即导出一次
func (t *SnapshotTask) Execute(ctx context.Context) (*dto.SnapshotInfo, error) {
	timer := prometheus.NewTimer(taskDuration.WithLabelValues("snapshot"))
	defer timer.ObserveDuration()

	info, err := t.exporter.Export(ctx)
	observeRun("snapshot", err)
	if err != nil {
		t.logger.Error("snapshot export failed", zap.Error(err))
		return nil, err
	}

	if t.onExported != nil {
		t.onExported()
	}
	return info, nil
}
