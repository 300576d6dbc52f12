package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack/internal/app/service/directory"
	"github.com/subtrackhq/subtrack/pkg/response"
	"github.com/subtrackhq/subtrack/pkg/types"
)

// @Summary      List Departments
// @Tags         Departments
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]models.Department]
// @Router       /api/v1/departments [get]
func ApiListDepartments(dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := callerProfile(c, dir); !ok {
			return
		}
		departments, err := dir.ListDepartments(c.Request.Context())
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(departments))
	}
}

type DepartmentRequest struct {
	Name string `json:"name"`
}

// @Summary      Create Department (Admin)
// @Tags         Departments
// @Accept       json
// @Produce      json
// @Param        request body DepartmentRequest true "Department name"
// @Success      200  {object}  response.APIResponse[models.Department]
// @Router       /api/v1/departments [post]
func ApiCreateDepartment(dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		if caller.Role != types.RoleAdmin {
			forbid(c)
			return
		}
		var req DepartmentRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing name"))
			return
		}
		dept, err := dir.CreateDepartment(c.Request.Context(), req.Name)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(dept))
	}
}

// @Summary      Rename Department (Admin)
// @Tags         Departments
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Department id"
// @Param        request body DepartmentRequest true "New name"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/departments/{id} [patch]
func ApiRenameDepartment(dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		if caller.Role != types.RoleAdmin {
			forbid(c)
			return
		}
		var req DepartmentRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing name"))
			return
		}
		if err := dir.RenameDepartment(c.Request.Context(), c.Param("id"), req.Name); err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Delete Department (Admin)
// @Description  Deletes a department; referencing profiles and subscriptions are detached, not deleted.
// @Tags         Departments
// @Produce      json
// @Param        id  path  string  true  "Department id"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/departments/{id} [delete]
func ApiDeleteDepartment(dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		if caller.Role != types.RoleAdmin {
			forbid(c)
			return
		}
		if err := dir.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterDepartmentRoutes(r gin.IRouter, dir *directory.Service) {
	r.GET("/departments", ApiListDepartments(dir))
	r.POST("/departments", ApiCreateDepartment(dir))
	r.PATCH("/departments/:id", ApiRenameDepartment(dir))
	r.DELETE("/departments/:id", ApiDeleteDepartment(dir))
}
