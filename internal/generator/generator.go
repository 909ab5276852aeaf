// Package generator renders an AppModel plus caller preferences into the
// fixed set of platform-integration artifacts. Every expansion is pure:
// identical inputs produce byte-identical files. Output always lands under an
// isolated root, never inside the scanned app's tree.
package generator

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"appweld/internal/model"
)

// Artifact types, the generator's public contract alongside the paths below.
const (
	TypeSessionMiddleware = "session-middleware"
	TypeDatabaseConnector = "database-connector"
	TypeModelFile         = "model"
	TypeLogo              = "logo"
	TypeNavigation        = "navigation"
	TypeStylesheet        = "stylesheet"
	TypeProxyRoute        = "proxy-route"
	TypeLandingPage       = "landing-page"
	TypeEnvConfig         = "env-config"
	TypeDocumentation     = "documentation"
	TypeManifestPatch     = "manifest-patch"
)

// Preferences carries the caller's generation options. The free-form strings
// are consumed verbatim by templates.
type Preferences struct {
	AddAuth     bool   `json:"add_auth"`
	AddDatabase bool   `json:"add_database"`
	AddBranding bool   `json:"add_branding"`
	AppName     string `json:"app_name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// GeneratedFile describes one emitted artifact. Path is relative to the
// generator's output root.
type GeneratedFile struct {
	Type        string `json:"type"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// GenerationError wraps the first template-rendering or filesystem failure.
// Artifacts already written before the failure are not rolled back.
type GenerationError struct {
	Artifact string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Artifact, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator renders integration artifacts for one app.
type Generator struct {
	appRoot    string // scanned tree, read-only (manifest patch input)
	outputRoot string
	renderer   *Renderer
	log        *slog.Logger
}

func New(appRoot, outputRoot string, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		appRoot:    appRoot,
		outputRoot: outputRoot,
		renderer:   NewRenderer(),
		log:        log,
	}
}

type templateData struct {
	AppName     string
	Description string
	Category    string
	Framework   model.Framework
	AppType     model.AppType
	Port        int
	Routes      []model.APIRoute
	Models      []model.DataModel
	ModelName   string
	Collection  string
	SourceFile  string
}

// Generate runs the fixed artifact pipeline. The conditional expansions come
// first, then the five unconditional ones; the first failure aborts with a
// GenerationError, leaving earlier artifacts in place.
func (g *Generator) Generate(m *model.AppModel, prefs Preferences) ([]GeneratedFile, error) {
	data := templateData{
		AppName:     prefs.AppName,
		Description: prefs.Description,
		Category:    prefs.Category,
		Framework:   m.Framework,
		AppType:     m.AppType,
		Port:        portFor(m.Framework),
		Routes:      m.APIRoutes,
		Models:      m.Models,
	}
	if data.AppName == "" {
		data.AppName = "Embedded App"
	}

	var files []GeneratedFile
	emit := func(artifactType, tmpl, relPath, description string, d templateData) error {
		content, err := g.renderer.Render(tmpl, d)
		if err != nil {
			return &GenerationError{Artifact: artifactType, Err: err}
		}
		if err := g.write(relPath, content); err != nil {
			return &GenerationError{Artifact: artifactType, Err: err}
		}
		files = append(files, GeneratedFile{Type: artifactType, Path: relPath, Description: description})
		return nil
	}

	if prefs.AddAuth {
		if err := emit(TypeSessionMiddleware, "session_middleware.js.tmpl", "middleware/session.js",
			"express-session middleware guarding platform routes", data); err != nil {
			return files, err
		}
	}

	if prefs.AddDatabase {
		if err := emit(TypeDatabaseConnector, "db_connect.js.tmpl", "db/connect.js",
			"mongoose connector exposing the shared platform fields", data); err != nil {
			return files, err
		}
		for _, dm := range m.Models {
			d := data
			d.ModelName = dm.Name
			d.Collection = dm.Collection
			d.SourceFile = dm.SourceFile
			rel := filepath.ToSlash(filepath.Join("db/models", kebabCase(dm.Name)+".platform.js"))
			if err := emit(TypeModelFile, "db_model.js.tmpl", rel,
				fmt.Sprintf("platform schema for the %s model", dm.Name), d); err != nil {
				return files, err
			}
		}
	}

	if prefs.AddBranding {
		if err := emit(TypeLogo, "logo.svg.tmpl", "branding/logo.svg", "platform logo", data); err != nil {
			return files, err
		}
		if err := emit(TypeNavigation, "navigation.jsx.tmpl", "branding/PlatformNavigation.jsx",
			"platform navigation bar component", data); err != nil {
			return files, err
		}
		if err := emit(TypeStylesheet, "stylesheet.css.tmpl", "branding/platform.css",
			"shared platform stylesheet", data); err != nil {
			return files, err
		}
	}

	if err := emit(TypeProxyRoute, "proxy_route.js.tmpl", "proxy/app-proxy.js",
		"proxy route forwarding platform traffic to the app", data); err != nil {
		return files, err
	}
	if err := emit(TypeLandingPage, "landing_page.jsx.tmpl", "components/LandingPage.jsx",
		"platform landing page component", data); err != nil {
		return files, err
	}
	if err := emit(TypeEnvConfig, "env_config.tmpl", ".env.platform",
		"required platform environment variables", data); err != nil {
		return files, err
	}
	if err := emit(TypeDocumentation, "integration_docs.md.tmpl", "INTEGRATION.md",
		"integration notes for the operator", data); err != nil {
		return files, err
	}

	patch, err := g.buildManifestPatch(prefs)
	if err != nil {
		return files, &GenerationError{Artifact: TypeManifestPatch, Err: err}
	}
	if err := g.write("package.platform.json", patch); err != nil {
		return files, &GenerationError{Artifact: TypeManifestPatch, Err: err}
	}
	files = append(files, GeneratedFile{
		Type:        TypeManifestPatch,
		Path:        "package.platform.json",
		Description: "dependency manifest patch for the operator to merge",
	})

	return files, nil
}

func (g *Generator) write(relPath string, content []byte) error {
	abs := filepath.Join(g.outputRoot, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return err
	}
	return os.WriteFile(abs, content, 0644)
}
