package handler

import "github.com/labstack/echo/v4"

// NewRouteGroups returns an open group and a manager group sharing prefix.
// A group with middleware claims every unmatched path under its prefix, so the
// open group's catch-all is registered last: unknown paths answer 404, not 401.
func NewRouteGroups(e *echo.Echo, prefix string, manager ...echo.MiddlewareFunc) (public, admin *echo.Group) {
	public = e.Group(prefix)
	admin = e.Group(prefix, manager...)
	public.RouteNotFound("", echo.NotFoundHandler)
	public.RouteNotFound("/*", echo.NotFoundHandler)
	return public, admin
}
