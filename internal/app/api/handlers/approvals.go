package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack/internal/app/service/approval"
	"github.com/subtrackhq/subtrack/internal/app/service/directory"
	"github.com/subtrackhq/subtrack/pkg/response"
)

// @Summary      List Approval Requests
// @Description  Returns all approval requests with their subscription and requester attached, newest first.
// @Tags         Approvals
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]approval.ListItem]
// @Router       /api/v1/approvals [get]
func ApiListApprovals(appr *approval.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := callerProfile(c, dir); !ok {
			return
		}
		items, err := appr.List(c.Request.Context())
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

type ResolveApprovalRequest struct {
	Approved *bool  `json:"approved"`
	Comment  string `json:"comment"`
}

// @Summary      Resolve Approval Request
// @Description  Approves or rejects a pending request and applies the subscription status transition atomically. Resolving twice fails with a conflict.
// @Tags         Approvals
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Approval request id"
// @Param        request body ResolveApprovalRequest true "Decision"
// @Success      200  {object}  response.APIResponse[approval.ResolveResult]
// @Router       /api/v1/approvals/{id} [patch]
func ApiResolveApproval(appr *approval.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		if !caller.Role.CanResolveApprovals() {
			forbid(c)
			return
		}
		var req ResolveApprovalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.Approved == nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing approved"))
			return
		}
		res, err := appr.Resolve(c.Request.Context(), c.Param("id"), *req.Approved, caller.ID, req.Comment)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterApprovalRoutes(r gin.IRouter, appr *approval.Service, dir *directory.Service) {
	r.GET("/approvals", ApiListApprovals(appr, dir))
	r.PATCH("/approvals/:id", ApiResolveApproval(appr, dir))
}
