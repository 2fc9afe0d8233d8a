package controller

import (
	"errors"

	"ecolearn_backend/internal/grader"
	"ecolearn_backend/internal/service"
	"ecolearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExerciseController struct {
	ExerciseService *service.ExerciseService
}

func NewExerciseController(exerciseService *service.ExerciseService) *ExerciseController {
	return &ExerciseController{ExerciseService: exerciseService}
}

// SubmitExercise godoc
// @Summary Submit an exercise answer
// @Description Grades server-side; points and lesson completion are awarded on the first pass
// @Tags progress
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "course id"
// @Param   exerciseId path int true "exercise id"
// @Param   body body grader.Submission true "student answer"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 404 {object} util.Response "exercise not found in this course"
// @Router /api/courses/{id}/exercises/{exerciseId} [post]
func (c *ExerciseController) SubmitExercise(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var sub grader.Submission
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.ExerciseService.SubmitExercise(
		claims.UserID,
		util.MustParseUint(ctx.Param("id")),
		util.MustParseUint(ctx.Param("exerciseId")),
		sub,
	)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrExerciseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, grader.ErrEmptySubmission), errors.Is(err, grader.ErrInvalidSpec), errors.Is(err, grader.ErrUnknownKind):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, res)
}

// SubmissionHistory godoc
// @Summary The student's graded attempts, newest first
// @Tags progress
// @Produce  json
// @Security BearerAuth
// @Param   exerciseId query int false "narrow to one exercise"
// @Success 200 {object} util.Response{data=[]model.ExerciseSubmission}
// @Router /api/users/me/submissions [get]
func (c *ExerciseController) SubmissionHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	subs, err := c.ExerciseService.History(claims.UserID, util.MustParseUint(ctx.Query("exerciseId")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

type GameSubmitRequest struct {
	Score      int                `json:"score"`
	MaxScore   int                `json:"maxScore"`
	Submission *grader.Submission `json:"submission,omitempty"`
}

// SubmitGame godoc
// @Summary Report a game result
// @Description Re-grades when the game carries a spec; keeps the student's best score
// @Tags progress
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "game id"
// @Param   body body GameSubmitRequest true "result payload"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 404 {object} util.Response "game not found"
// @Router /api/games/{id}/submit [post]
func (c *ExerciseController) SubmitGame(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req GameSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reported := grader.Result{Score: req.Score, MaxScore: req.MaxScore}
	res, err := c.ExerciseService.SubmitGame(claims.UserID, util.MustParseUint(ctx.Param("id")), reported, req.Submission)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrGameNotFound):
			util.NotFound(ctx)
		case errors.Is(err, grader.ErrEmptySubmission), errors.Is(err, grader.ErrInvalidSpec), errors.Is(err, grader.ErrUnknownKind):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, res)
}
