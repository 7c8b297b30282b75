package server

import "github.com/aaron-cedillo/EbenConta-Project/api"

// Route path constants
const (
	// User identity
	RouteUsersLogin      = api.PathLogin
	RouteUsersRenewToken = api.PathRenewToken
	RouteUsersPreflight  = "/api/users/{path...}"

	// Operations
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
