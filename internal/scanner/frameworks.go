package scanner

import (
	"os"
	"path/filepath"

	"appweld/internal/model"
)

// frameworkMarkers describes the evidence set for one candidate framework.
// Dependency names and characteristic paths both count as markers; a
// candidate matches when at least half its markers are present.
type frameworkMarkers struct {
	Framework model.Framework
	AppType   model.AppType
	Deps      []string
	Paths     []string
}

// defaultFrameworkMarkers is checked in declaration order; the first
// candidate meeting the half-markers threshold wins. The order doubles as
// the tie-break for ambiguous trees (e.g. Next apps also depend on react),
// so next must stay ahead of react, and react ahead of express.
var defaultFrameworkMarkers = []frameworkMarkers{
	{
		Framework: model.FrameworkNext,
		AppType:   model.AppTypeWeb,
		Deps:      []string{"next"},
		Paths:     []string{"pages", "next.config.js"},
	},
	{
		Framework: model.FrameworkReact,
		AppType:   model.AppTypeWeb,
		Deps:      []string{"react", "react-dom"},
		Paths:     []string{"public/index.html", "src/App.js", "src/App.jsx", "src/App.tsx"},
	},
	{
		Framework: model.FrameworkExpress,
		AppType:   model.AppTypeAPI,
		Deps:      []string{"express"},
		Paths:     []string{"server.js", "app.js", "routes"},
	},
	{
		Framework: model.FrameworkVue,
		AppType:   model.AppTypeWeb,
		Deps:      []string{"vue"},
		Paths:     []string{"vue.config.js", "src/main.js"},
	},
	{
		Framework: model.FrameworkAngular,
		AppType:   model.AppTypeWeb,
		Deps:      []string{"@angular/core"},
		Paths:     []string{"angular.json", "src/main.ts"},
	},
	{
		Framework: model.FrameworkSvelte,
		AppType:   model.AppTypeWeb,
		Deps:      []string{"svelte"},
		Paths:     []string{"svelte.config.js"},
	},
}

// detectFramework counts matched markers per candidate and returns the first
// one whose matches reach half its marker total. Nothing matching leaves both
// fields unknown, which is a valid model state, not an error.
func detectFramework(root string, deps map[string]string, table []frameworkMarkers) (model.Framework, model.AppType) {
	for _, cand := range table {
		matched := 0
		for _, dep := range cand.Deps {
			if _, ok := deps[dep]; ok {
				matched++
			}
		}
		for _, p := range cand.Paths {
			if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(p))); err == nil {
				matched++
			}
		}
		total := len(cand.Deps) + len(cand.Paths)
		if total > 0 && matched*2 >= total {
			return cand.Framework, cand.AppType
		}
	}
	return model.FrameworkUnknown, model.AppTypeUnknown
}
