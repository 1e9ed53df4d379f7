package controller

import (
	"errors"
	"net/http"

	"failure_bank_backend/internal/model"
	"failure_bank_backend/internal/service"
	"failure_bank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type RegisterRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	NotificationTime string `json:"notification_time"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ProfileResponse struct {
	ID                           string `json:"id"`
	Email                        string `json:"email"`
	NotificationTime             string `json:"notification_time"`
	IsNotificationSetupCompleted bool   `json:"is_notification_setup_completed"`
	CreatedAt                    string `json:"created_at"`
}

func toProfile(user *model.User) ProfileResponse {
	return ProfileResponse{
		ID:                           user.ID,
		Email:                        user.Email,
		NotificationTime:             user.NotificationTime,
		IsNotificationSetupCompleted: user.IsNotificationSetupCompleted,
		CreatedAt:                    user.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Register 用户注册
// @Summary 注册新用户
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	user := &model.User{
		Email:            req.Email,
		Password:         req.Password,
		NotificationTime: req.NotificationTime,
	}

	if err := ac.AuthService.Register(user); err != nil {
		switch {
		case errors.Is(err, util.ErrEmailRegistered):
			util.Error(c, http.StatusConflict, err.Error())
		case errors.Is(err, util.ErrInvalidTimeOfDay):
			util.BadRequest(c, err.Error())
		default:
			util.LogInternalError(c, err)
		}
		return
	}

	// 注册即登录，直接带回令牌
	token, err := ac.AuthService.IssueToken(user)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Created(c, gin.H{
		"user":  toProfile(user),
		"token": token,
	})
}

// Logout 无状态登出：服务端不保存会话，客户端丢弃令牌即可。
// 端点保留用于兼容既有客户端的登出流程。
// @Summary 登出
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	util.Success(c, nil)
}

// Login 用户登录
// @Summary 登录并返回 JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	token, err := ac.AuthService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, gin.H{"token": token})
}

// GetProfile 当前登录用户信息
// @Summary 获取当前用户
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /profile [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	user := ac.AuthService.GetCurrentUser(c)
	if user == nil {
		util.Unauthorized(c)
		return
	}
	util.Success(c, toProfile(user))
}
