package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== CooldownLimiter 冷却限流器 ====================

// CooldownLimiter 手动触发的维护操作限流
// 防止频繁导出快照、清理关联
type CooldownLimiter struct {
	locks sync.Map // key -> *lockEntry
}

type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// NewCooldownLimiter 创建限流器
func NewCooldownLimiter() *CooldownLimiter {
	return &CooldownLimiter{}
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// CheckOnly 只检查不记录，执行成功后再调用 MarkExecuted
func (r *CooldownLimiter) CheckOnly(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	elapsed := time.Since(entry.lastTime)
	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}
	return CheckResult{Allowed: true}
}

// MarkExecuted 记录执行时间；定时任务执行后也占用冷却
func (r *CooldownLimiter) MarkExecuted(key string) {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.lastTime = time.Now()
}

// Reset 重置指定 key
func (r *CooldownLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== 操作类型 ====================

// Operation 维护操作
type Operation string

const (
	OpSnapshot Operation = "snapshot"
	OpPrune    Operation = "prune"
)

// DefaultIntervals 默认冷却间隔
var DefaultIntervals = map[Operation]time.Duration{
	OpSnapshot: time.Minute,
	OpPrune:    30 * time.Second,
}

// GetInterval 获取操作的默认间隔
func GetInterval(op Operation) time.Duration {
	if interval, ok := DefaultIntervals[op]; ok {
		return interval
	}
	return time.Minute
}

// ==================== Gin 中间件 ====================

// Cooldown 冷却中间件；interval 为 0 时使用默认值
// 只有处理成功（状态码 < 400）才开始冷却
func Cooldown(limiter *CooldownLimiter, op Operation, interval time.Duration) gin.HandlerFunc {
	if interval == 0 {
		interval = GetInterval(op)
	}

	return func(c *gin.Context) {
		result := limiter.CheckOnly(string(op), interval)
		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": formatRetryMessage(result.RetryAfter),
				"data": gin.H{
					"retry_after": int(result.RetryAfter.Seconds()),
					"operation":   op,
				},
			})
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() < http.StatusBadRequest {
			limiter.MarkExecuted(string(op))
		}
	}
}

// formatRetryMessage 格式化重试提示
func formatRetryMessage(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("操作冷却中，请 %d 秒后重试", seconds)
	}

	minutes := seconds / 60
	remainingSeconds := seconds % 60
	if remainingSeconds == 0 {
		return fmt.Sprintf("操作冷却中，请 %d 分钟后重试", minutes)
	}
	return fmt.Sprintf("操作冷却中，请 %d 分 %d 秒后重试", minutes, remainingSeconds)
}
