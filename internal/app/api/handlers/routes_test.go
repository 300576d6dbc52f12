package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterUserRoutes(g, nil)
	RegisterDepartmentRoutes(g, nil)
	RegisterSubscriptionRoutes(g, nil, nil, nil)
	RegisterApprovalRoutes(g, nil, nil)
	RegisterDocumentRoutes(g, nil, nil)
	RegisterNotificationRoutes(g, nil, nil)
	RegisterReportRoutes(g, nil, nil)
	RegisterOCRRoutes(g, nil, nil)
	RegisterHealthRoutes(r)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("GET /api/v1/me"))
	require.True(t, contains("GET /api/v1/users"))
	require.True(t, contains("PATCH /api/v1/users/:id"))
	require.True(t, contains("GET /api/v1/departments"))
	require.True(t, contains("POST /api/v1/departments"))
	require.True(t, contains("PATCH /api/v1/departments/:id"))
	require.True(t, contains("DELETE /api/v1/departments/:id"))
	require.True(t, contains("GET /api/v1/subscriptions"))
	require.True(t, contains("POST /api/v1/subscriptions"))
	require.True(t, contains("POST /api/v1/subscriptions/search"))
	require.True(t, contains("GET /api/v1/subscriptions/:id"))
	require.True(t, contains("PATCH /api/v1/subscriptions/:id"))
	require.True(t, contains("POST /api/v1/subscriptions/:id/cancel"))
	require.True(t, contains("GET /api/v1/subscriptions/:id/history"))
	require.True(t, contains("GET /api/v1/approvals"))
	require.True(t, contains("PATCH /api/v1/approvals/:id"))
	require.True(t, contains("GET /api/v1/documents"))
	require.True(t, contains("POST /api/v1/documents"))
	require.True(t, contains("GET /api/v1/notifications"))
	require.True(t, contains("POST /api/v1/notifications/:id/read"))
	require.True(t, contains("GET /api/v1/reports/summary"))
	require.True(t, contains("GET /api/v1/reports/export"))
	require.True(t, contains("POST /api/v1/ocr/scan"))
	require.True(t, contains("GET /healthz"))
}
