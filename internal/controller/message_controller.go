package controller

import (
	"errors"

	"ecolearn_backend/internal/service"
	"ecolearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MessageController struct {
	MessageService *service.MessageService
	AuthService    *service.AuthService
}

func NewMessageController(messageService *service.MessageService, authService *service.AuthService) *MessageController {
	return &MessageController{
		MessageService: messageService,
		AuthService:    authService,
	}
}

// Counterparts godoc
// @Summary Open message threads
// @Description Accounts the caller has exchanged messages with
// @Tags messages
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/messages [get]
func (c *MessageController) Counterparts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	users, err := c.MessageService.Counterparts(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// Thread godoc
// @Summary Message thread with one counterpart
// @Description Oldest first; fetching marks the counterpart's messages read
// @Tags messages
// @Produce  json
// @Security BearerAuth
// @Param   userId path int true "counterpart user id"
// @Success 200 {object} util.Response{data=[]model.Message}
// @Router /api/messages/{userId} [get]
func (c *MessageController) Thread(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	messages, err := c.MessageService.Thread(claims.UserID, util.MustParseUint(ctx.Param("userId")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, messages)
}

// TeacherThread godoc
// @Summary Thread with a parent
// @Description The teacher-side messaging view, keyed by parent id
// @Tags messages
// @Produce  json
// @Security BearerAuth
// @Param   parentId query int true "parent user id"
// @Success 200 {object} util.Response{data=[]model.Message}
// @Router /api/teachers/messages [get]
func (c *MessageController) TeacherThread(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	parentID := util.MustParseUint(ctx.Query("parentId"))
	if parentID == 0 {
		util.BadRequest(ctx, "parentId is required")
		return
	}

	messages, err := c.MessageService.Thread(claims.UserID, parentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, messages)
}

type TeacherSendRequest struct {
	ParentID uint   `json:"parentId" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// TeacherSend godoc
// @Summary Send a message to a parent
// @Tags messages
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body TeacherSendRequest true "message payload"
// @Success 201 {object} util.Response{data=model.Message}
// @Failure 400 {object} util.Response "empty content"
// @Failure 404 {object} util.Response "parent not found"
// @Router /api/teachers/messages [post]
func (c *MessageController) TeacherSend(ctx *gin.Context) {
	var req TeacherSendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sender := c.AuthService.GetCurrentUser(ctx)
	if sender == nil {
		util.Unauthorized(ctx)
		return
	}

	msg, err := c.MessageService.Send(sender, req.ParentID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyMessage):
			util.BadRequest(ctx, "message content is empty")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, msg)
}

type SendMessageRequest struct {
	RecipientID uint   `json:"recipientId" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

// Send godoc
// @Summary Send a message
// @Tags messages
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SendMessageRequest true "message payload"
// @Success 201 {object} util.Response{data=model.Message}
// @Failure 400 {object} util.Response "empty content"
// @Failure 404 {object} util.Response "recipient not found"
// @Router /api/messages [post]
func (c *MessageController) Send(ctx *gin.Context) {
	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sender := c.AuthService.GetCurrentUser(ctx)
	if sender == nil {
		util.Unauthorized(ctx)
		return
	}

	msg, err := c.MessageService.Send(sender, req.RecipientID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyMessage):
			util.BadRequest(ctx, "message content is empty")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, msg)
}
