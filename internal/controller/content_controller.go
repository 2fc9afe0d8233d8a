package controller

import (
	"errors"

	"ecolearn_backend/internal/grader"
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/service"
	"ecolearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// CreateCourse godoc
// @Summary Create a course
// @Tags content
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CourseCreateRequest true "course payload"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Router /api/courses [post]
func (c *ContentController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.CourseCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.ContentService.CreateCourse(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrInvalidGradeLevel) {
			util.BadRequest(ctx, "unknown grade level")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, course)
}

// ListCourses godoc
// @Summary List courses
// @Description Students see published courses for their grade; teachers see everything
// @Tags content
// @Produce  json
// @Security BearerAuth
// @Param   level query string false "grade level filter"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (c *ContentController) ListCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	level := ctx.Query("level")
	publishedOnly := claims.Role == model.Student || claims.Role == model.Parent

	courses, err := c.ContentService.ListCourses(level, publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// UpdateCourse godoc
// @Summary Edit a course
// @Description Partial update; omitted fields keep their current value
// @Tags content
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "course id"
// @Param   body body service.CourseUpdateRequest true "fields to change"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response "course not found"
// @Router /api/courses/{id} [put]
func (c *ContentController) UpdateCourse(ctx *gin.Context) {
	var req service.CourseUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.ContentService.UpdateCourse(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// GetCourse godoc
// @Summary Course detail with lessons
// @Tags content
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "course id"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *ContentController) GetCourse(ctx *gin.Context) {
	course, err := c.ContentService.GetCourse(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, course)
}

// CreateLesson godoc
// @Summary Add a lesson to a course
// @Tags content
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "course id"
// @Param   body body service.LessonCreateRequest true "lesson payload"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response "course not found"
// @Router /api/courses/{id}/lessons [post]
func (c *ContentController) CreateLesson(ctx *gin.Context) {
	var req service.LessonCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.ContentService.CreateLesson(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, lesson)
}

// UploadLessonVideo godoc
// @Summary Attach a video to a lesson
// @Description Probes the upload for duration, stores it and generates a thumbnail
// @Tags content
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "lesson id"
// @Param   video formData file true "video file"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response "missing file"
// @Router /api/lessons/{id}/video [post]
func (c *ContentController) UploadLessonVideo(ctx *gin.Context) {
	file, err := ctx.FormFile("video")
	if err != nil {
		util.BadRequest(ctx, "video file is required")
		return
	}

	lesson, err := c.ContentService.AttachLessonVideo(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// CreateExercise godoc
// @Summary Add an exercise to a lesson
// @Description The spec is validated against the grading engine before saving
// @Tags content
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "lesson id"
// @Param   body body service.ExerciseCreateRequest true "exercise payload"
// @Success 201 {object} util.Response{data=model.Exercise}
// @Failure 400 {object} util.Response "invalid exercise spec"
// @Router /api/lessons/{id}/exercises [post]
func (c *ContentController) CreateExercise(ctx *gin.Context) {
	var req service.ExerciseCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ex, err := c.ContentService.CreateExercise(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, ex)
}

type ExerciseSpecUpdateRequest struct {
	Spec grader.Spec `json:"spec" binding:"required"`
}

// UpdateExerciseSpec godoc
// @Summary Revise the scoring spec of an exercise
// @Description Validates the new spec against the grading engine and bumps the content version
// @Tags content
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "exercise id"
// @Param   body body ExerciseSpecUpdateRequest true "replacement spec"
// @Success 200 {object} util.Response{data=model.Exercise}
// @Failure 400 {object} util.Response "invalid exercise spec"
// @Failure 404 {object} util.Response "exercise not found"
// @Router /api/exercises/{id}/spec [put]
func (c *ContentController) UpdateExerciseSpec(ctx *gin.Context) {
	var req ExerciseSpecUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ex, err := c.ContentService.UpdateExerciseSpec(util.MustParseUint(ctx.Param("id")), req.Spec)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrExerciseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, grader.ErrInvalidSpec), errors.Is(err, grader.ErrUnknownKind):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, ex)
}

// ListExercises godoc
// @Summary Exercises of a lesson
// @Tags content
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "lesson id"
// @Success 200 {object} util.Response{data=[]model.Exercise}
// @Router /api/lessons/{id}/exercises [get]
func (c *ContentController) ListExercises(ctx *gin.Context) {
	exercises, err := c.ContentService.ListExercises(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, exercises)
}

// CreateGame godoc
// @Summary Create a game
// @Tags content
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.GameCreateRequest true "game payload"
// @Success 201 {object} util.Response{data=model.Game}
// @Failure 400 {object} util.Response
// @Router /api/games [post]
func (c *ContentController) CreateGame(ctx *gin.Context) {
	var req service.GameCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	game, err := c.ContentService.CreateGame(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, game)
}

// ListGames godoc
// @Summary List games
// @Tags content
// @Produce  json
// @Security BearerAuth
// @Param   level query string false "grade level filter"
// @Success 200 {object} util.Response{data=[]model.Game}
// @Router /api/games [get]
func (c *ContentController) ListGames(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	publishedOnly := claims.Role == model.Student || claims.Role == model.Parent
	games, err := c.ContentService.ListGames(ctx.Query("level"), publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, games)
}
