package scanner

import (
	"fmt"
	"strings"

	"appweld/internal/model"
)

// Route paths containing one of these fragments are assumed to serve
// protected resources and get an auth integration point.
var protectedPathFragments = []string{
	"admin", "user", "account", "profile", "dashboard", "settings", "private",
}

// Components whose name contains one of these substrings look layout-like
// and get a branding integration point.
var layoutNameFragments = []string{
	"Layout", "Nav", "Header", "Footer", "Sidebar", "Menu",
}

// deriveIntegrationPoints builds the reporting view from the extracted
// routes, models, and components. It must run after extraction completes;
// everything else about the scan is order-independent.
func deriveIntegrationPoints(m *model.AppModel) []model.IntegrationPoint {
	points := []model.IntegrationPoint{}

	for _, r := range m.APIRoutes {
		lower := strings.ToLower(r.Path)
		for _, frag := range protectedPathFragments {
			if strings.Contains(lower, frag) {
				points = append(points, model.IntegrationPoint{
					Kind:       model.IntegrationAuth,
					SourceFile: r.SourceFile,
					Rationale:  fmt.Sprintf("route %s %s serves a protected resource (%q)", r.Method, r.Path, frag),
				})
				break
			}
		}
	}

	for _, dm := range m.Models {
		points = append(points, model.IntegrationPoint{
			Kind:       model.IntegrationDatabase,
			SourceFile: dm.SourceFile,
			Rationale:  fmt.Sprintf("%s model %s should carry the shared platform fields", dm.ORM, dm.Name),
		})
	}

	for _, c := range m.Components {
		for _, frag := range layoutNameFragments {
			if strings.Contains(c.Name, frag) {
				points = append(points, model.IntegrationPoint{
					Kind:       model.IntegrationBranding,
					SourceFile: c.SourceFile,
					Rationale:  fmt.Sprintf("component %s looks layout-like and should adopt platform branding", c.Name),
				})
				break
			}
		}
	}

	return points
}
