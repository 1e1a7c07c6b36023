package domain

import "strings"

type RouteName string

const (
	RouteRoot     RouteName = "root"
	RouteTasks    RouteName = "tasks"
	RouteActivity RouteName = "activity"
	RouteUsers    RouteName = "users"
	RouteRoles    RouteName = "roles"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

var routePaths = map[RouteName]string{
	RouteRoot:     HomePath,
	RouteTasks:    "/tasks",
	RouteActivity: "/activity",
	RouteUsers:    "/users",
	RouteRoles:    "/roles",
}

func (r RouteName) Path() (string, bool) {
	path, ok := routePaths[r]
	return path, ok
}

// ResolvePath accepts either a route name or a path.
func ResolvePath(target string) string {
	trimmed := strings.TrimSpace(target)
	if path, ok := RouteName(trimmed).Path(); ok {
		return path
	}
	if trimmed == "" {
		return HomePath
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return trimmed
}

func IsPublicPath(path string) bool {
	return path == LoginPath
}
