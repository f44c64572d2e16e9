package task

import (
	"context"

	"go.uber.org/zap"

	"channel_admin_v1/internal/api/dto"
	"channel_admin_v1/internal/middleware"
)

// ==================== TaskManager 维护任务管理器 ====================

// TaskManager 统一管理定时维护任务
type TaskManager struct {
	integrityTask *IntegrityTask
	snapshotTask  *SnapshotTask
	logger        *zap.Logger
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	Integrity IntegrityChecker
	Snapshot  SnapshotExporter

	// 可选：定时导出后占用手动导出的冷却
	Limiter *middleware.CooldownLimiter
	Logger  *zap.Logger
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	IntegrityEnabled bool
	IntegritySpec    string
	PruneOrphans     bool

	SnapshotEnabled bool
	SnapshotSpec    string
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		IntegrityEnabled: true,
		IntegritySpec:    "0 */30 * * * *",
		PruneOrphans:     false,

		SnapshotEnabled: false,
		SnapshotSpec:    "0 0 3 * * *",
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tm := &TaskManager{logger: logger}

	if cfg.IntegrityEnabled && deps.Integrity != nil {
		tm.integrityTask = NewIntegrityTask(deps.Integrity, cfg.IntegritySpec, cfg.PruneOrphans, logger)
	}

	if cfg.SnapshotEnabled && deps.Snapshot != nil {
		tm.snapshotTask = NewSnapshotTask(deps.Snapshot, cfg.SnapshotSpec, logger)
		if deps.Limiter != nil {
			limiter := deps.Limiter
			tm.snapshotTask.onExported = func() {
				limiter.MarkExecuted(string(middleware.OpSnapshot))
			}
		}
	}

	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务；任一任务启动失败时停止已启动的任务
func (tm *TaskManager) Start() error {
	tm.logger.Info("starting maintenance tasks")

	if tm.integrityTask != nil {
		if err := tm.integrityTask.Start(); err != nil {
			return err
		}
	}
	if tm.snapshotTask != nil {
		if err := tm.snapshotTask.Start(); err != nil {
			if tm.integrityTask != nil {
				tm.integrityTask.Stop()
			}
			return err
		}
	}
	return nil
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	if tm.integrityTask != nil {
		tm.integrityTask.Stop()
	}
	if tm.snapshotTask != nil {
		tm.snapshotTask.Stop()
	}
	tm.logger.Info("maintenance tasks stopped")
}

// ==================== 手动触发接口 ====================

// TriggerIntegrity 立即巡检
func (tm *TaskManager) TriggerIntegrity(ctx context.Context) (*dto.IntegrityReport, error) {
	if tm.integrityTask == nil {
		return nil, ErrTaskDisabled
	}
	return tm.integrityTask.Execute(ctx)
}

// TriggerSnapshot 立即导出
func (tm *TaskManager) TriggerSnapshot(ctx context.Context) (*dto.SnapshotInfo, error) {
	if tm.snapshotTask == nil {
		return nil, ErrTaskDisabled
	}
	return tm.snapshotTask.Execute(ctx)
}

// ==================== 状态查询 ====================

// Status 各任务是否启用
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"integrity": tm.integrityTask != nil,
		"snapshot":  tm.snapshotTask != nil,
	}
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
)
