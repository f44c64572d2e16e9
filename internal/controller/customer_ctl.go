package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"channel_admin_v1/internal/api/dto"
	"channel_admin_v1/internal/service"
)

type CustomerController struct {
	customerSvc *service.CustomerService
	accessSvc   *service.AccessService
}

func NewCustomerController(customerSvc *service.CustomerService, accessSvc *service.AccessService) *CustomerController {
	return &CustomerController{
		customerSvc: customerSvc,
		accessSvc:   accessSvc,
	}
}

// List 客户列表
// @Summary 客户列表
// @Description 每个客户附带 channel_ids；无关联时为 null（全局访问）
// @Tags Customer (客户管理)
// @Produce json
// @Param keyword query string false "邮箱/姓名关键词"
// @Success 200 {array} dto.CustomerInfo
// @Router /api/customers [get]
func (c *CustomerController) List(ctx *gin.Context) {
	var req dto.CustomerListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	list, err := c.customerSvc.ListWithChannels(ctx.Request.Context(), req.Keyword)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": list,
	})
}

// Get 客户详情
// @Summary 客户详情
// @Tags Customer (客户管理)
// @Produce json
// @Param id path string true "客户ID"
// @Success 200 {object} dto.CustomerInfo
// @Failure 404 {object} map[string]interface{}
// @Router /api/customers/{id} [get]
func (c *CustomerController) Get(ctx *gin.Context) {
	info, err := c.customerSvc.GetCustomer(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": info,
	})
}

// Create 新增客户
// @Summary 新增客户
// @Tags Customer (客户管理)
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "客户信息"
// @Success 201 {object} model.Customer
// @Failure 400 {object} map[string]interface{}
// @Router /api/customers [post]
func (c *CustomerController) Create(ctx *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	customer, err := c.customerSvc.AddCustomer(ctx.Request.Context(), req.Email, req.FirstName, req.LastName, req.ChannelIDs)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "创建成功",
		"data":    customer,
	})
}

// Delete 删除客户（级联删除渠道关联）
// @Summary 删除客户
// @Tags Customer (客户管理)
// @Produce json
// @Param id path string true "客户ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/customers/{id} [delete]
func (c *CustomerController) Delete(ctx *gin.Context) {
	removed, err := c.customerSvc.DeleteCustomer(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	if !removed {
		abortWithError(ctx, service.ErrCustomerNotFound)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "删除成功",
	})
}

// Access 客户能否登录指定渠道
// @Summary 访问判定
// @Tags Customer (客户管理)
// @Produce json
// @Param id path string true "客户ID"
// @Param channel_id path string true "渠道ID"
// @Success 200 {object} dto.AccessResult
// @Failure 404 {object} map[string]interface{}
// @Router /api/customers/{id}/access/{channel_id} [get]
func (c *CustomerController) Access(ctx *gin.Context) {
	result, err := c.accessSvc.CanAccess(ctx.Request.Context(), ctx.Param("id"), ctx.Param("channel_id"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": result,
	})
}
