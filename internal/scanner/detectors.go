package scanner

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"appweld/internal/model"
)

// Finding is one typed detection. Exactly one field is set. Detectors are
// independent and their findings are unioned: the same file may yield routes,
// models, and components at once, and two families may report the same route.
type Finding struct {
	Route     *model.APIRoute
	Model     *model.DataModel
	Component *model.Component
}

// Detector applies one heuristic pattern family to files within a fixed glob
// scope. Match must be pure: content in, findings out.
type Detector struct {
	Name  string
	Globs []string
	Match func(relPath string, content []byte) []Finding
}

func (d Detector) applies(relPath string) bool {
	for _, g := range d.Globs {
		if ok, err := doublestar.Match(g, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

var (
	// app.get('/api/users', ...) and friends on app/router/server objects.
	verbCallPattern = regexp.MustCompile("(?m)\\b(?:app|router|server|api)\\s*\\.\\s*(get|post|put|delete|patch|all)\\s*\\(\\s*['\"`]([^'\"`]+)['\"`]")

	// export async function GET(...), the route-handler convention.
	handlerExportPattern = regexp.MustCompile(`(?m)^\s*export\s+(?:async\s+)?function\s+(GET|POST|PUT|DELETE|PATCH)\b`)

	// export default function handler(...), the pages/api convention.
	defaultHandlerPattern = regexp.MustCompile(`(?m)^\s*export\s+default\s+(?:async\s+)?function\b`)

	// mongoose.model('User', userSchema)
	mongooseModelPattern = regexp.MustCompile(`mongoose\s*\.\s*model\s*\(\s*['"]([A-Za-z_]\w*)['"]`)

	// model User { ... } inside a Prisma schema.
	prismaModelPattern = regexp.MustCompile(`(?m)^\s*model\s+([A-Za-z_]\w*)\s*\{`)

	// Any exported top-level declaration starting with an uppercase letter.
	// Known false positives (exported config constants) are accepted.
	componentExportPattern = regexp.MustCompile(`(?m)^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function|const|class|let|var)\s+([A-Z]\w*)`)
)

// routeCandidateGlobs scopes both route families. The set is shared so every
// route candidate file gets both pattern sets applied; when both match, both
// findings are kept.
var routeCandidateGlobs = []string{
	"routes/**", "src/routes/**", "api/**", "src/api/**",
	"server/**", "src/server/**", "controllers/**", "src/controllers/**",
	"pages/api/**", "src/pages/api/**", "app/api/**", "src/app/api/**",
	"*.js", "*.ts", "src/*.js", "src/*.ts",
}

func defaultDetectors() []Detector {
	return []Detector{
		{
			Name:  "http-verb-routes",
			Globs: routeCandidateGlobs,
			Match: matchVerbRoutes,
		},
		{
			Name:  "exported-handler-routes",
			Globs: routeCandidateGlobs,
			Match: matchHandlerRoutes,
		},
		{
			Name: "mongoose-models",
			Globs: []string{
				"models/**", "src/models/**", "server/models/**", "app/models/**",
				"db/**", "src/db/**",
			},
			Match: matchMongooseModels,
		},
		{
			Name:  "prisma-models",
			Globs: []string{"prisma/**", "**/*.prisma"},
			Match: matchPrismaModels,
		},
		{
			Name: "ui-components",
			Globs: []string{
				"components/**", "src/components/**", "src/**", "app/**", "pages/**",
			},
			Match: matchComponents,
		},
	}
}

func matchVerbRoutes(relPath string, content []byte) []Finding {
	var out []Finding
	for _, m := range verbCallPattern.FindAllSubmatch(content, -1) {
		out = append(out, Finding{Route: &model.APIRoute{
			Method:     strings.ToUpper(string(m[1])),
			Path:       string(m[2]),
			SourceFile: relPath,
			Framework:  model.FrameworkExpress,
		}})
	}
	return out
}

func matchHandlerRoutes(relPath string, content []byte) []Finding {
	routePath := routePathFromFile(relPath)
	var out []Finding
	for _, m := range handlerExportPattern.FindAllSubmatch(content, -1) {
		out = append(out, Finding{Route: &model.APIRoute{
			Method:     string(m[1]),
			Path:       routePath,
			SourceFile: relPath,
			Framework:  model.FrameworkNext,
		}})
	}
	if defaultHandlerPattern.Match(content) {
		out = append(out, Finding{Route: &model.APIRoute{
			Method:     "ALL",
			Path:       routePath,
			SourceFile: relPath,
			Framework:  model.FrameworkNext,
		}})
	}
	return out
}

// routePathFromFile maps pages/api/users/index.ts or app/api/users/route.ts
// to /api/users.
func routePathFromFile(relPath string) string {
	p := relPath
	p = strings.TrimPrefix(p, "src/")
	p = strings.TrimPrefix(p, "pages/")
	p = strings.TrimPrefix(p, "app/")
	if ext := strings.LastIndex(p, "."); ext > 0 {
		p = p[:ext]
	}
	p = strings.TrimSuffix(p, "/route")
	p = strings.TrimSuffix(p, "/index")
	return "/" + p
}

func matchMongooseModels(relPath string, content []byte) []Finding {
	var out []Finding
	for _, m := range mongooseModelPattern.FindAllSubmatch(content, -1) {
		name := string(m[1])
		out = append(out, Finding{Model: &model.DataModel{
			Name:       name,
			Collection: strings.ToLower(name) + "s",
			SourceFile: relPath,
			ORM:        model.ORMMongoose,
		}})
	}
	return out
}

func matchPrismaModels(relPath string, content []byte) []Finding {
	if !strings.HasSuffix(relPath, ".prisma") {
		return nil
	}
	var out []Finding
	for _, m := range prismaModelPattern.FindAllSubmatch(content, -1) {
		out = append(out, Finding{Model: &model.DataModel{
			Name:       string(m[1]),
			SourceFile: relPath,
			ORM:        model.ORMPrisma,
		}})
	}
	return out
}

func matchComponents(relPath string, content []byte) []Finding {
	if strings.HasSuffix(relPath, ".prisma") {
		return nil
	}
	var out []Finding
	for _, m := range componentExportPattern.FindAllSubmatch(content, -1) {
		out = append(out, Finding{Component: &model.Component{
			Name:       string(m[1]),
			SourceFile: relPath,
		}})
	}
	return out
}
