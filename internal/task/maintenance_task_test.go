package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"channel_admin_v1/internal/api/dto"
	"channel_admin_v1/internal/middleware"
)

// ==================== 测试替身 ====================

type fakeChecker struct {
	calls  atomic.Int32
	pruned atomic.Bool
	err    error
}

func (f *fakeChecker) Check(_ context.Context, prune bool) (*dto.IntegrityReport, error) {
	f.calls.Add(1)
	f.pruned.Store(prune)
	if f.err != nil {
		return nil, f.err
	}
	return &dto.IntegrityReport{TotalLinks: 3, OrphanLinks: []dto.OrphanLink{{}}}, nil
}

type fakeExporter struct {
	calls atomic.Int32
	err   error
}

func (f *fakeExporter) Export(context.Context) (*dto.SnapshotInfo, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SnapshotInfo{Location: "mem://snap"}, nil
}

// ==================== 测试用例 ====================

func TestIntegrityTask_Execute(t *testing.T) {
	checker := &fakeChecker{}
	task := NewIntegrityTask(checker, "@every 1h", true, zap.NewNop())

	report, err := task.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalLinks)
	assert.True(t, checker.pruned.Load())

	checker.err = errors.New("boom")
	_, err = task.Execute(context.Background())
	assert.Error(t, err)
}

func TestIntegrityTask_Scheduled(t *testing.T) {
	checker := &fakeChecker{}
	task := NewIntegrityTask(checker, "* * * * * *", false, zap.NewNop())
	require.NoError(t, task.Start())
	defer task.Stop()

	assert.Eventually(t, func() bool {
		return checker.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestIntegrityTask_InvalidSpec(t *testing.T) {
	task := NewIntegrityTask(&fakeChecker{}, "not a spec", false, zap.NewNop())
	assert.Error(t, task.Start())
}

func TestTaskManager_DisabledTasks(t *testing.T) {
	tm := NewTaskManager(&TaskManagerDeps{}, &TaskManagerConfig{})
	require.NoError(t, tm.Start())
	defer tm.Stop()

	assert.Equal(t, map[string]bool{"integrity": false, "snapshot": false}, tm.Status())

	_, err := tm.TriggerIntegrity(context.Background())
	assert.ErrorIs(t, err, ErrTaskDisabled)
	_, err = tm.TriggerSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrTaskDisabled)
}

func TestTaskManager_SnapshotMarksCooldown(t *testing.T) {
	limiter := middleware.NewCooldownLimiter()
	exporter := &fakeExporter{}
	tm := NewTaskManager(&TaskManagerDeps{
		Integrity: &fakeChecker{},
		Snapshot:  exporter,
		Limiter:   limiter,
		Logger:    zap.NewNop(),
	}, &TaskManagerConfig{
		IntegrityEnabled: true,
		IntegritySpec:    "@every 1h",
		SnapshotEnabled:  true,
		SnapshotSpec:     "@every 1h",
	})
	require.NoError(t, tm.Start())
	defer tm.Stop()

	assert.Equal(t, map[string]bool{"integrity": true, "snapshot": true}, tm.Status())

	info, err := tm.TriggerSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mem://snap", info.Location)
	assert.EqualValues(t, 1, exporter.calls.Load())

	// 定时导出后手动导出进入冷却
	assert.False(t, limiter.CheckOnly(string(middleware.OpSnapshot), time.Hour).Allowed)
}

func TestTaskManager_StartFailsOnBadSpec(t *testing.T) {
	tm := NewTaskManager(&TaskManagerDeps{
		Integrity: &fakeChecker{},
		Snapshot:  &fakeExporter{},
	}, &TaskManagerConfig{
		IntegrityEnabled: true,
		IntegritySpec:    "@every 1h",
		SnapshotEnabled:  true,
		SnapshotSpec:     "bad",
	})
	assert.Error(t, tm.Start())
}
