package handler

import (
	"errors"
	"strconv"

	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/bitfantasy/nimo-mes/internal/mes/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handlers MES HTTP处理器集合
type Handlers struct {
	Product    *ProductHandler
	BOM        *BOMHandler
	Inventory  *InventoryHandler
	MO         *MOHandler
	WO         *WOHandler
	WorkCenter *WorkCenterHandler
	Report     *ReportHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Product:    NewProductHandler(svc.Product),
		BOM:        NewBOMHandler(svc.BOM),
		Inventory:  NewInventoryHandler(svc.Inventory),
		MO:         NewMOHandler(svc.MO),
		WO:         NewWOHandler(svc.WO),
		WorkCenter: NewWorkCenterHandler(svc.WorkCenter),
		Report:     NewReportHandler(svc.Report),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// NoContent 无内容响应
func NoContent(c *gin.Context) {
	c.Status(204)
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict 状态冲突响应
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// HandleServiceError 按错误分类映射HTTP响应：
// 缺料→409(带lacking)，非法迁移→409，唯一/外键约束冲突→409，不存在→404，其余→500
func HandleServiceError(c *gin.Context, err error) {
	var shortage *service.ShortageError
	switch {
	case errors.As(err, &shortage):
		c.JSON(409, Response{
			Code:    40901,
			Message: err.Error(),
			Data: gin.H{
				"status":  "not_available",
				"lacking": shortage.ProductID,
			},
		})
	case errors.Is(err, service.ErrInvalidTransition):
		Conflict(c, err.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		Conflict(c, "记录已存在")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		Conflict(c, "存在关联记录，不能执行该操作")
	case repository.IsNotFound(err):
		NotFound(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetPagination 从请求获取分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}
