package controller

import (
	"errors"
	"strconv"

	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/service"
	"ecolearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProfileUpdateRequest true "fields to change"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Router /api/users/me [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.ProfileUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

type GradeLevelRequest struct {
	Level string `json:"level" binding:"required"`
}

// SetGradeLevel godoc
// @Summary Pick a grade level
// @Description Students choose 5eme or 6eme before unlocking content
// @Tags users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body GradeLevelRequest true "grade level"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "unknown grade level"
// @Router /api/users/me/level [put]
func (c *UserController) SetGradeLevel(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req GradeLevelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.SetGradeLevel(claims.UserID, req.Level); err != nil {
		if errors.Is(err, util.ErrInvalidGradeLevel) {
			util.BadRequest(ctx, "unknown grade level")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"level": req.Level})
}

type LinkChildRequest struct {
	StudentEmail string `json:"studentEmail" binding:"required,email"`
}

// LinkChild godoc
// @Summary Link a child account
// @Description Parents attach a student account by email to follow progress
// @Tags users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body LinkChildRequest true "student email"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response "no such student"
// @Router /api/parents/children [post]
func (c *UserController) LinkChild(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req LinkChildRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.UserService.LinkChild(claims.UserID, req.StudentEmail)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, student)
}

// Children godoc
// @Summary List linked children
// @Tags users
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/parents/children [get]
func (c *UserController) Children(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	children, err := c.UserService.Children(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, children)
}

// Leaderboard godoc
// @Summary Points leaderboard
// @Description Top students by points, optionally filtered by grade level
// @Tags users
// @Produce  json
// @Security BearerAuth
// @Param   level query string false "grade level filter"
// @Param   limit query int false "max entries (default 10)"
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/leaderboard [get]
func (c *UserController) Leaderboard(ctx *gin.Context) {
	level := ctx.Query("level")
	if level != "" && !model.ValidGradeLevel(level) {
		util.BadRequest(ctx, "unknown grade level")
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	users, err := c.UserService.Leaderboard(level, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}
