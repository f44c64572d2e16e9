package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"channel_admin_v1/internal/service"
)

// ==================== MaintenanceController 维护控制器 ====================

// MaintenanceController 完整性检查与快照
type MaintenanceController struct {
	integritySvc *service.IntegrityService
	snapshotSvc  *service.SnapshotService
}

// NewMaintenanceController 创建维护控制器
func NewMaintenanceController(integritySvc *service.IntegrityService, snapshotSvc *service.SnapshotService) *MaintenanceController {
	return &MaintenanceController{
		integritySvc: integritySvc,
		snapshotSvc:  snapshotSvc,
	}
}

// Integrity 检查悬空关联（只读）
// @Summary 完整性检查
// @Tags Maintenance
// @Produce json
// @Success 200 {object} dto.IntegrityReport
// @Router /api/integrity [get]
func (c *MaintenanceController) Integrity(ctx *gin.Context) {
	report, err := c.integritySvc.Check(ctx.Request.Context(), false)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": report,
	})
}

// Prune 检查并删除悬空关联
// @Summary 清理悬空关联
// @Tags Maintenance
// @Produce json
// @Success 200 {object} dto.IntegrityReport
// @Failure 429 {object} map[string]interface{}
// @Router /api/integrity/prune [post]
func (c *MaintenanceController) Prune(ctx *gin.Context) {
	report, err := c.integritySvc.Check(ctx.Request.Context(), true)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "清理完成",
		"data":    report,
	})
}

// ExportSnapshot 立即导出快照
// @Summary 导出快照
// @Tags Maintenance
// @Produce json
// @Success 200 {object} dto.SnapshotInfo
// @Failure 429 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/snapshots [post]
func (c *MaintenanceController) ExportSnapshot(ctx *gin.Context) {
	info, err := c.snapshotSvc.Export(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "导出成功",
		"data":    info,
	})
}

// RestoreSnapshot 用请求体中的快照覆盖全部数据
// @Summary 恢复快照
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body dto.SnapshotBundle true "快照内容"
// @Success 200 {object} dto.SnapshotInfo
// @Failure 400 {object} map[string]interface{}
// @Router /api/snapshots/restore [post]
func (c *MaintenanceController) RestoreSnapshot(ctx *gin.Context) {
	data, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		badRequest(ctx, err)
		return
	}

	info, err := c.snapshotSvc.Restore(ctx.Request.Context(), data)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "恢复成功",
		"data":    info,
	})
}
