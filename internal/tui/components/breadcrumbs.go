package components

import (
	"strings"

	"sharedeck/internal/api"
	"sharedeck/internal/tui/styles"
)

// RenderBreadcrumbs draws the trail from root to the current directory.
// The root crumb always comes first; the last crumb is the current one.
func RenderBreadcrumbs(crumbs []api.Breadcrumb) string {
	if len(crumbs) == 0 {
		return styles.CrumbCurrent.Render("root")
	}
	parts := make([]string, 0, len(crumbs))
	for i, c := range crumbs {
		name := c.Name
		if name == "" {
			name = "root"
		}
		if i == len(crumbs)-1 {
			parts = append(parts, styles.CrumbCurrent.Render(name))
		} else {
			parts = append(parts, styles.Crumb.Render(name))
		}
	}
	return strings.Join(parts, styles.Status.Render(" / "))
}
