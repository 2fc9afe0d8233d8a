package controller

import (
	"errors"

	"ecolearn_backend/internal/leveltest"
	"ecolearn_backend/internal/service"
	"ecolearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LevelTestController struct {
	LevelTestService *service.LevelTestService
}

func NewLevelTestController(levelTestService *service.LevelTestService) *LevelTestController {
	return &LevelTestController{LevelTestService: levelTestService}
}

// Status godoc
// @Summary Placement test status
// @Description Tells the client whether the one-shot placement test was already taken
// @Tags level-test
// @Produce  json
// @Security BearerAuth
// @Param   level query string true "grade level"
// @Success 200 {object} util.Response{data=service.Status}
// @Failure 400 {object} util.Response "unknown grade level"
// @Router /api/level-test/status [get]
func (c *LevelTestController) Status(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	status, err := c.LevelTestService.Status(claims.UserID, ctx.Query("level"))
	if err != nil {
		if errors.Is(err, util.ErrInvalidGradeLevel) {
			util.BadRequest(ctx, "unknown grade level")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, status)
}

// Questions godoc
// @Summary Placement test questions
// @Description Questions for a grade level, without the correct choices
// @Tags level-test
// @Produce  json
// @Security BearerAuth
// @Param   level query string true "grade level"
// @Success 200 {object} util.Response{data=[]leveltest.Question}
// @Failure 400 {object} util.Response "unknown grade level"
// @Router /api/level-test/questions [get]
func (c *LevelTestController) Questions(ctx *gin.Context) {
	questions, err := c.LevelTestService.Questions(ctx.Query("level"))
	if err != nil {
		util.BadRequest(ctx, "unknown grade level")
		return
	}
	util.Success(ctx, questions)
}

type LevelTestSubmitRequest struct {
	Level   string             `json:"level" binding:"required"`
	Answers []leveltest.Answer `json:"answers" binding:"required"`
}

// Submit godoc
// @Summary Submit the placement test
// @Description Single attempt per level; score and category are recomputed server-side
// @Tags level-test
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body LevelTestSubmitRequest true "answers"
// @Success 201 {object} util.Response{data=model.LevelTestResult}
// @Failure 400 {object} util.Response "incomplete answer set"
// @Failure 409 {object} util.Response "already submitted"
// @Router /api/level-test/submit [post]
func (c *LevelTestController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req LevelTestSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.LevelTestService.Submit(claims.UserID, req.Level, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTestAlreadySubmitted):
			util.Conflict(ctx, "placement test already submitted for this level")
		case errors.Is(err, util.ErrInvalidGradeLevel):
			util.BadRequest(ctx, "unknown grade level")
		case errors.Is(err, leveltest.ErrIncomplete):
			util.BadRequest(ctx, "every question needs exactly one answer")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, result)
}
