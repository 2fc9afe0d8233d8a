package controller

import (
	"errors"

	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/service"
	"ecolearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// StudentDashboard godoc
// @Summary Student home dashboard
// @Description Points, badges, per-course completion and best game scores
// @Tags dashboard
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.StudentSummary}
// @Router /api/dashboard [get]
func (c *DashboardController) StudentDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	summary, err := c.DashboardService.StudentDashboard(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// ChildDashboard godoc
// @Summary One child's dashboard
// @Description Same view a student sees, gated on the parent-child link (teachers see any student)
// @Tags dashboard
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "student id"
// @Success 200 {object} util.Response{data=service.StudentSummary}
// @Failure 403 {object} util.Response "student not linked to this parent"
// @Router /api/students/{id}/dashboard [get]
func (c *DashboardController) ChildDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	studentID := util.MustParseUint(ctx.Param("id"))

	var (
		summary *service.StudentSummary
		err     error
	)
	if claims.Role == model.Teacher || claims.Role == model.Admin {
		summary, err = c.DashboardService.StudentDashboard(studentID)
	} else {
		summary, err = c.DashboardService.ChildDashboard(claims.UserID, studentID)
	}
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotLinkedToStudent):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, summary)
}

// ParentDashboard godoc
// @Summary Parent overview
// @Description A progress summary for every linked child
// @Tags dashboard
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.ChildOverview}
// @Router /api/parents/dashboard [get]
func (c *DashboardController) ParentDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	overviews, err := c.DashboardService.ParentDashboard(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overviews)
}

// TeacherRoster godoc
// @Summary Class roster
// @Description All students with their placement-test status
// @Tags dashboard
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.RosterEntry}
// @Router /api/teachers/roster [get]
func (c *DashboardController) TeacherRoster(ctx *gin.Context) {
	roster, err := c.DashboardService.TeacherRoster()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, roster)
}
