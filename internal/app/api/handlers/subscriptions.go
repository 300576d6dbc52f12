package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack/internal/app/service/approval"
	"github.com/subtrackhq/subtrack/internal/app/service/directory"
	subsvc "github.com/subtrackhq/subtrack/internal/app/service/subscription"
	"github.com/subtrackhq/subtrack/pkg/response"
	"github.com/subtrackhq/subtrack/pkg/types"
)

// @Summary      List Subscriptions
// @Description  Returns subscriptions visible to the caller. Members only see their own; managers and admins see all.
// @Tags         Subscriptions
// @Produce      json
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {object}  response.APIResponse[[]models.Subscription]
// @Router       /api/v1/subscriptions [get]
func ApiListSubscriptions(sub *subsvc.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		filter := subsvc.ListFilter{Status: types.SubscriptionStatus(c.Query("status"))}
		items, err := sub.List(c.Request.Context(), caller, filter)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      Create Subscription
// @Description  Inserts a subscription in pending_approval status and opens the create-type approval request.
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        request body subscription.CreateInput true "New subscription fields"
// @Success      200  {object}  response.APIResponse[subscription.CreateResult]
// @Router       /api/v1/subscriptions [post]
func ApiCreateSubscription(sub *subsvc.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		var in subsvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := sub.Create(c.Request.Context(), &in, caller.ID)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Subscription
// @Tags         Subscriptions
// @Produce      json
// @Param        id  path  string  true  "Subscription id"
// @Success      200  {object}  response.APIResponse[models.Subscription]
// @Router       /api/v1/subscriptions/{id} [get]
func ApiGetSubscription(sub *subsvc.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		item, err := sub.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		if !caller.Role.SeesAllSubscriptions() && item.OwnerID != caller.ID {
			forbid(c)
			return
		}
		c.JSON(http.StatusOK, response.OKT(item))
	}
}

// @Summary      Update Subscription
// @Description  Sparse patch as the manager/admin override path. Fee changes append a fee history row.
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Subscription id"
// @Param        request body subscription.UpdateInput true "Fields to change"
// @Success      200  {object}  response.APIResponse[models.Subscription]
// @Router       /api/v1/subscriptions/{id} [patch]
func ApiUpdateSubscription(sub *subsvc.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		if !caller.Role.SeesAllSubscriptions() {
			forbid(c)
			return
		}
		var in subsvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		item, err := sub.Update(c.Request.Context(), c.Param("id"), &in, caller.ID)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(item))
	}
}

type CancelSubscriptionRequest struct {
	Comment string `json:"comment"`
}

// @Summary      Request Cancellation
// @Description  Opens a cancel-type approval request; the subscription stays active until resolution.
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Subscription id"
// @Param        request body CancelSubscriptionRequest false "Optional comment"
// @Success      200  {object}  response.APIResponse[models.ApprovalRequest]
// @Router       /api/v1/subscriptions/{id}/cancel [post]
func ApiCancelSubscription(appr *approval.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		var req CancelSubscriptionRequest
		_ = c.ShouldBindJSON(&req)
		item, err := appr.Submit(c.Request.Context(), c.Param("id"), types.ApprovalTypeCancel, caller.ID, req.Comment)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(item))
	}
}

// @Summary      Subscription Fee History
// @Tags         Subscriptions
// @Produce      json
// @Param        id  path  string  true  "Subscription id"
// @Success      200  {object}  response.APIResponse[[]models.SubscriptionHistory]
// @Router       /api/v1/subscriptions/{id}/history [get]
func ApiSubscriptionHistory(sub *subsvc.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := callerProfile(c, dir); !ok {
			return
		}
		rows, err := sub.History(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      Search Subscriptions (Admin)
// @Description  Paginated, filterable scan for admin pages.
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        request body subscription.ScanRequest true "Filters, pagination and sorting"
// @Success      200  {object}  response.APIResponse[subscription.ScanResponse]
// @Router       /api/v1/subscriptions/search [post]
func ApiSearchSubscriptions(sub *subsvc.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		if !caller.Role.SeesAllSubscriptions() {
			forbid(c)
			return
		}
		var req subsvc.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := sub.Scan(c.Request.Context(), &req)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, sub *subsvc.Service, appr *approval.Service, dir *directory.Service) {
	r.GET("/subscriptions", ApiListSubscriptions(sub, dir))
	r.POST("/subscriptions", ApiCreateSubscription(sub, dir))
	r.POST("/subscriptions/search", ApiSearchSubscriptions(sub, dir))
	r.GET("/subscriptions/:id", ApiGetSubscription(sub, dir))
	r.PATCH("/subscriptions/:id", ApiUpdateSubscription(sub, dir))
	r.POST("/subscriptions/:id/cancel", ApiCancelSubscription(appr, dir))
	r.GET("/subscriptions/:id/history", ApiSubscriptionHistory(sub, dir))
}
