package controller

import (
	"errors"

	"failure_bank_backend/internal/model"
	"failure_bank_backend/internal/service"
	"failure_bank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService *service.ChallengeService
}

func NewChallengeController(challengeService *service.ChallengeService) *ChallengeController {
	return &ChallengeController{ChallengeService: challengeService}
}

type CreateChallengeRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
	Score   int    `json:"score" binding:"required,min=1,max=5"`
}

// UpdateChallengeRequest 部分更新，缺省字段保持原值
type UpdateChallengeRequest struct {
	Content *string `json:"content" binding:"omitempty,min=1,max=1000"`
	Score   *int    `json:"score" binding:"omitempty,min=1,max=5"`
}

type ChallengeResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Score     int    `json:"score"`
	CreatedAt string `json:"created_at"`
}

func toChallengeResponse(c *model.Challenge) ChallengeResponse {
	return ChallengeResponse{
		ID:        c.ID,
		Content:   c.Content,
		Score:     c.Score,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Create 记录一条挑战
// @Summary 新建挑战记录
// @Tags challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateChallengeRequest true "内容与评分 1-5"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /challenges [post]
func (cc *ChallengeController) Create(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	challenge, err := cc.ChallengeService.Create(c.Request.Context(), claims.UserID, req.Content, req.Score)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Created(c, toChallengeResponse(challenge))
}

// List 当前用户的全部挑战，按创建时间倒序
// @Summary 挑战列表
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /challenges [get]
func (cc *ChallengeController) List(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	challenges, err := cc.ChallengeService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	out := make([]ChallengeResponse, 0, len(challenges))
	for i := range challenges {
		out = append(out, toChallengeResponse(&challenges[i]))
	}
	util.Success(c, out)
}

// Get 查询单条挑战
// @Summary 挑战详情
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Param id path string true "挑战 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /challenges/{id} [get]
func (cc *ChallengeController) Get(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	challenge, err := cc.ChallengeService.Get(c.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, toChallengeResponse(challenge))
}

// Update 部分更新挑战
// @Summary 更新挑战
// @Tags challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "挑战 ID"
// @Param request body UpdateChallengeRequest true "要更新的字段"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /challenges/{id} [put]
func (cc *ChallengeController) Update(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	challenge, err := cc.ChallengeService.Update(c.Request.Context(), c.Param("id"), claims.UserID, req.Content, req.Score)
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, toChallengeResponse(challenge))
}

// Delete 删除挑战
// @Summary 删除挑战
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Param id path string true "挑战 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /challenges/{id} [delete]
func (cc *ChallengeController) Delete(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	if err := cc.ChallengeService.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, gin.H{"deleted": true})
}
