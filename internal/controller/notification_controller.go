package controller

import (
	"failure_bank_backend/internal/service"
	"failure_bank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
	AuthService         *service.AuthService
}

func NewNotificationController(notificationService *service.NotificationService, authService *service.AuthService) *NotificationController {
	return &NotificationController{
		NotificationService: notificationService,
		AuthService:         authService,
	}
}

// SendBatch 执行一轮通知批处理（X-API-Key 保护，供外部调度器调用）
// @Summary 触发通知批处理
// @Tags notifications
// @Produce json
// @Param X-API-Key header string true "调度器密钥"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /notifications/send [post]
func (nc *NotificationController) SendBatch(c *gin.Context) {
	result, err := nc.NotificationService.RunBatch(c.Request.Context())
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, result)
}

// SendTest 给当前登录用户发一封测试通知
// @Summary 发送测试通知
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /notifications/test [post]
func (nc *NotificationController) SendTest(c *gin.Context) {
	user := nc.AuthService.GetCurrentUser(c)
	if user == nil {
		util.Unauthorized(c)
		return
	}

	result, err := nc.NotificationService.SendTest(c.Request.Context(), user)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, result)
}
