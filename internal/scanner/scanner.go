// Package scanner classifies an unknown web-application source tree into an
// AppModel using heuristic, non-exclusive detection. It never parses source
// into an AST: every detector is a regex over file content, and overlapping
// findings are unioned rather than short-circuited.
package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"appweld/internal/model"
)

// ScanError reports an input-level failure that aborts the whole scan, such
// as a missing root path or an unparsable dependency manifest. Heuristic
// misses (unknown framework, zero routes) are never ScanErrors.
type ScanError struct {
	Op   string
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// Scanner walks a source tree and produces an AppModel. The marker table and
// detector set are fixed at construction so concurrent scanners never share
// mutable state.
type Scanner struct {
	log        *slog.Logger
	frameworks []frameworkMarkers
	detectors  []Detector
	ignored    []string
}

// New creates a scanner with the default framework markers and detectors.
func New(log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{
		log:        log,
		frameworks: defaultFrameworkMarkers,
		detectors:  defaultDetectors(),
		ignored:    []string{".git", "node_modules", "vendor", "dist", "build", ".next", "coverage", "testdata"},
	}
}

// sourceExtensions lists the file types detectors are applied to.
var sourceExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".mjs": true, ".cjs": true, ".vue": true, ".svelte": true,
	".prisma": true,
}

// Scan builds an AppModel for the tree rooted at root. It fails only on a
// missing root or an unparsable manifest; individual unreadable files are
// skipped with a warning.
func (s *Scanner) Scan(root string) (*model.AppModel, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &ScanError{Op: "open", Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanError{Op: "open", Path: root, Err: fmt.Errorf("not a directory")}
	}

	m := model.New()

	// 1. Dependency manifest. Absence is fine; invalid JSON is not.
	deps, err := readManifest(root)
	if err != nil {
		return nil, &ScanError{Op: "manifest", Path: filepath.Join(root, manifestName), Err: err}
	}
	m.Dependencies = deps

	// 2. Framework detection by evidence counting over markers.
	m.Framework, m.AppType = detectFramework(root, deps, s.frameworks)

	// 3-5. Route, model, and component extraction over one walk.
	if err := s.walk(root, m); err != nil {
		return nil, err
	}

	// 6. Auth/database presence from dependency names and path signals.
	m.HasAuth = hasDependencySignal(deps, authDependencyKeywords) || hasPathSignal(root, authPathGlobs)
	m.HasDatabase = hasDependencySignal(deps, databaseDependencyKeywords) || hasPathSignal(root, databasePathGlobs)

	// 7. Integration points are derived last; they need the full finding set.
	m.IntegrationPoints = deriveIntegrationPoints(m)

	return m, nil
}

// walk applies every detector whose glob scope matches each source file and
// unions the findings into the model. A single file may contribute findings
// of several kinds, including duplicate routes across detector families.
func (s *Scanner) walk(root string, m *model.AppModel) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Warn("walk error, skipping entry", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			for _, ign := range s.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !sourceExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		var content []byte
		for _, det := range s.detectors {
			if !det.applies(rel) {
				continue
			}
			if content == nil {
				content, err = os.ReadFile(path)
				if err != nil {
					// Unreadable file: warn and move on, never fail the scan.
					s.log.Warn("unreadable file skipped", "path", path, "err", err)
					return nil
				}
			}
			for _, f := range det.Match(rel, content) {
				switch {
				case f.Route != nil:
					m.APIRoutes = append(m.APIRoutes, *f.Route)
				case f.Model != nil:
					m.Models = append(m.Models, *f.Model)
				case f.Component != nil:
					m.Components = append(m.Components, *f.Component)
				}
			}
		}
		return nil
	})
}
