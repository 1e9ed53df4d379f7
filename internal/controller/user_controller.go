package controller

import (
	"errors"

	"failure_bank_backend/internal/service"
	"failure_bank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

type NotificationSettingsRequest struct {
	NotificationTime string `json:"notification_time" binding:"required"`
}

// UpdateNotificationSettings 修改通知时刻并标记设置已完成
// @Summary 更新通知设置
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body NotificationSettingsRequest true "通知时刻 HH:MM"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /user/notification-settings [put]
func (uc *UserController) UpdateNotificationSettings(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req NotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := uc.UserService.UpdateNotificationSettings(claims.UserID, req.NotificationTime); err != nil {
		if errors.Is(err, util.ErrInvalidTimeOfDay) {
			util.BadRequest(c, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, gin.H{
		"notification_time":               req.NotificationTime,
		"is_notification_setup_completed": true,
	})
}
