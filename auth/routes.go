package auth

import (
	"github.com/aaron-cedillo/EbenConta-Project/api"
	apperrors "github.com/aaron-cedillo/EbenConta-Project/internal/errors"
)

// Route is a client-side navigation target.
type Route string

const (
	RouteLogin             Route = "/login"
	RouteAdminDashboard    Route = "/AdminDashboard"
	RouteContadorDashboard Route = "/ContadorDashboard"
)

// Navigator performs client-side navigation.
type Navigator interface {
	Navigate(route Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route Route)

func (f NavigatorFunc) Navigate(route Route) {
	f(route)
}

// TargetForRole derives the landing surface from the role alone.
func TargetForRole(role api.Role) (Route, error) {
	switch role {
	case api.RoleAdmin:
		return RouteAdminDashboard, nil
	case api.RoleContador:
		return RouteContadorDashboard, nil
	default:
		return "", apperrors.Wrapf(ErrUnrecognizedRole, "role %q", role)
	}
}
