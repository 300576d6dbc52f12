package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack/internal/app/service/directory"
	"github.com/subtrackhq/subtrack/pkg/response"
	"github.com/subtrackhq/subtrack/pkg/types"
)

// @Summary      Current Profile
// @Description  Returns the caller's profile, creating a member row on first sight.
// @Tags         Users
// @Produce      json
// @Success      200  {object}  response.APIResponse[models.Profile]
// @Router       /api/v1/me [get]
func ApiMe(dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, response.OKT(caller))
	}
}

// @Summary      List Users (Admin)
// @Tags         Users
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]models.Profile]
// @Router       /api/v1/users [get]
func ApiListUsers(dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		if caller.Role != types.RoleAdmin {
			forbid(c)
			return
		}
		profiles, err := dir.ListProfiles(c.Request.Context())
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(profiles))
	}
}

type AssignUserRequest struct {
	Role         types.Role `json:"role"`
	DepartmentID *string    `json:"department_id"`
}

// @Summary      Assign Role/Department (Admin)
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Profile id"
// @Param        request body AssignUserRequest true "Role and department"
// @Success      200  {object}  response.APIResponse[models.Profile]
// @Router       /api/v1/users/{id} [patch]
func ApiAssignUser(dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		if caller.Role != types.RoleAdmin {
			forbid(c)
			return
		}
		var req AssignUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		profile, err := dir.AssignProfile(c.Request.Context(), c.Param("id"), req.Role, req.DepartmentID)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(profile))
	}
}

func RegisterUserRoutes(r gin.IRouter, dir *directory.Service) {
	r.GET("/me", ApiMe(dir))
	r.GET("/users", ApiListUsers(dir))
	r.PATCH("/users/:id", ApiAssignUser(dir))
}
