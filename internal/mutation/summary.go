package mutation

import (
	"fmt"
	"strings"

	"appweld/internal/generator"
	"appweld/internal/model"
)

// summarize renders the AppModel and preferences as the app section of the
// plan prompt.
func summarize(m *model.AppModel, prefs generator.Preferences) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Name: %s\n", prefs.AppName)
	fmt.Fprintf(&sb, "Framework: %s (%s)\n", m.Framework, m.AppType)
	fmt.Fprintf(&sb, "Auth present: %v, database present: %v\n", m.HasAuth, m.HasDatabase)
	fmt.Fprintf(&sb, "Requested integrations: auth=%v database=%v branding=%v\n",
		prefs.AddAuth, prefs.AddDatabase, prefs.AddBranding)

	if len(m.APIRoutes) > 0 {
		sb.WriteString("\nAPI routes:\n")
		for _, r := range m.APIRoutes {
			fmt.Fprintf(&sb, "- %s %s (%s)\n", r.Method, r.Path, r.SourceFile)
		}
	}
	if len(m.Models) > 0 {
		sb.WriteString("\nData models:\n")
		for _, dm := range m.Models {
			fmt.Fprintf(&sb, "- %s [%s] (%s)\n", dm.Name, dm.ORM, dm.SourceFile)
		}
	}
	if len(m.Components) > 0 {
		sb.WriteString("\nUI components:\n")
		for _, c := range m.Components {
			fmt.Fprintf(&sb, "- %s (%s)\n", c.Name, c.SourceFile)
		}
	}
	if len(m.IntegrationPoints) > 0 {
		sb.WriteString("\nSuggested integration points:\n")
		for _, p := range m.IntegrationPoints {
			fmt.Fprintf(&sb, "- [%s] %s: %s\n", p.Kind, p.SourceFile, p.Rationale)
		}
	}

	return sb.String()
}
