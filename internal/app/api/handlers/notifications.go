package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack/internal/app/service/directory"
	"github.com/subtrackhq/subtrack/internal/app/service/notification"
	"github.com/subtrackhq/subtrack/pkg/response"
)

// @Summary      List Notifications
// @Description  Returns the caller's notifications, newest first. unread_only=true narrows to unread ones.
// @Tags         Notifications
// @Produce      json
// @Param        unread_only  query  bool  false  "Only unread notifications"
// @Success      200  {object}  response.APIResponse[[]models.Notification]
// @Router       /api/v1/notifications [get]
func ApiListNotifications(notif *notification.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		items, err := notif.List(c.Request.Context(), caller.ID, c.Query("unread_only") == "true")
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      Mark Notification Read
// @Tags         Notifications
// @Produce      json
// @Param        id  path  string  true  "Notification id"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/notifications/{id}/read [post]
func ApiMarkNotificationRead(notif *notification.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		if err := notif.MarkRead(c.Request.Context(), c.Param("id"), caller.ID); err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterNotificationRoutes(r gin.IRouter, notif *notification.Service, dir *directory.Service) {
	r.GET("/notifications", ApiListNotifications(notif, dir))
	r.POST("/notifications/:id/read", ApiMarkNotificationRead(notif, dir))
}
