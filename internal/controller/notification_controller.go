package controller

import (
	"errors"

	"ecolearn_backend/internal/service"
	"ecolearn_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// List godoc
// @Summary List notifications
// @Tags notifications
// @Produce  json
// @Security BearerAuth
// @Param   unreadOnly query bool false "only unread"
// @Success 200 {object} util.Response{data=[]model.Notification}
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	unreadOnly := ctx.Query("unreadOnly") == "true"
	notifications, err := c.NotificationService.List(claims.UserID, unreadOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, notifications)
}

// UnreadCount godoc
// @Summary Unread notification count
// @Tags notifications
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	count, err := c.NotificationService.UnreadCount(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"count": count})
}

// MarkRead godoc
// @Summary Mark a notification read
// @Description Idempotent; only the owner may mark it
// @Tags notifications
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "notification id"
// @Success 200 {object} util.Response{data=model.Notification}
// @Failure 403 {object} util.Response "not the owner"
// @Failure 404 {object} util.Response
// @Router /api/notifications/{id}/read [put]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	n, err := c.NotificationService.MarkRead(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, n)
}
