package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"channel_admin_v1/internal/api/dto"
	"channel_admin_v1/internal/service"
)

type ChannelController struct {
	channelSvc *service.ChannelService
}

func NewChannelController(channelSvc *service.ChannelService) *ChannelController {
	return &ChannelController{channelSvc: channelSvc}
}

// List 渠道列表
// @Summary 渠道列表
// @Description 按插入顺序返回，keyword 按名称过滤（不区分大小写）
// @Tags Channel (渠道管理)
// @Produce json
// @Param keyword query string false "名称关键词"
// @Success 200 {array} model.Channel
// @Failure 401 {object} map[string]interface{}
// @Router /api/channels [get]
func (c *ChannelController) List(ctx *gin.Context) {
	var req dto.ChannelListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	list, err := c.channelSvc.ListChannels(ctx.Request.Context(), req.Keyword)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": list,
	})
}

// Get 渠道详情
// @Summary 渠道详情
// @Tags Channel (渠道管理)
// @Produce json
// @Param id path string true "渠道ID"
// @Success 200 {object} model.Channel
// @Failure 404 {object} map[string]interface{}
// @Router /api/channels/{id} [get]
func (c *ChannelController) Get(ctx *gin.Context) {
	channel, err := c.channelSvc.GetChannel(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": channel,
	})
}

// Create 新增渠道
// @Summary 新增渠道
// @Tags Channel (渠道管理)
// @Accept json
// @Produce json
// @Param request body dto.CreateChannelRequest true "渠道信息"
// @Success 201 {object} model.Channel
// @Failure 400 {object} map[string]interface{}
// @Router /api/channels [post]
func (c *ChannelController) Create(ctx *gin.Context) {
	var req dto.CreateChannelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	channel, err := c.channelSvc.AddChannel(ctx.Request.Context(), req.Name, req.AllowGlobalLogin)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "创建成功",
		"data":    channel,
	})
}

// Delete 删除渠道（级联删除客户关联）
// @Summary 删除渠道
// @Tags Channel (渠道管理)
// @Produce json
// @Param id path string true "渠道ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/channels/{id} [delete]
func (c *ChannelController) Delete(ctx *gin.Context) {
	removed, err := c.channelSvc.DeleteChannel(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	if !removed {
		abortWithError(ctx, service.ErrChannelNotFound)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "删除成功",
	})
}
