package controller

import (
	"strconv"

	"failure_bank_backend/internal/service"
	"failure_bank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// Summary 全量/本周/本月统计
// @Summary 统计概览
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /stats/summary [get]
func (sc *StatsController) Summary(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	summary, err := sc.StatsService.Summary(c.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, summary)
}

// Calendar 某年某月逐日统计
// @Summary 日历统计
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param year query int true "年份"
// @Param month query int true "月份 1-12"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /stats/calendar [get]
func (sc *StatsController) Calendar(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil || year < 1 || month < 1 || month > 12 {
		util.BadRequest(c, util.ErrInvalidCalendarArgs.Error())
		return
	}

	view, err := sc.StatsService.Calendar(c.Request.Context(), claims.UserID, year, month)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, view)
}
