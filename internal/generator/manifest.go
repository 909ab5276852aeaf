package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"appweld/internal/platform"
)

// buildManifestPatch merges the platform's required packages and scripts into
// the app's existing manifest and returns the merged document. Required
// packages win on key collision (last-writer-wins). The result is written to
// the output root, never over the app's live package.json.
func (g *Generator) buildManifestPatch(prefs Preferences) ([]byte, error) {
	manifest := map[string]json.RawMessage{}

	raw, err := os.ReadFile(filepath.Join(g.appRoot, "package.json"))
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &manifest); err != nil {
			return nil, fmt.Errorf("existing manifest is not valid JSON: %w", err)
		}
	case os.IsNotExist(err):
		name, _ := json.Marshal(kebabCase(prefs.AppName))
		manifest["name"] = name
	default:
		return nil, err
	}

	deps := map[string]string{}
	if rawDeps, ok := manifest["dependencies"]; ok {
		if err := json.Unmarshal(rawDeps, &deps); err != nil {
			return nil, fmt.Errorf("existing dependencies block is malformed: %w", err)
		}
	}
	for name, version := range platform.RequiredPackages {
		deps[name] = version
	}
	encodedDeps, err := json.Marshal(deps)
	if err != nil {
		return nil, err
	}
	manifest["dependencies"] = encodedDeps

	scripts := map[string]string{}
	if rawScripts, ok := manifest["scripts"]; ok {
		if err := json.Unmarshal(rawScripts, &scripts); err != nil {
			return nil, fmt.Errorf("existing scripts block is malformed: %w", err)
		}
	}
	for name, cmd := range platform.Scripts {
		scripts[name] = cmd
	}
	encodedScripts, err := json.Marshal(scripts)
	if err != nil {
		return nil, err
	}
	manifest["scripts"] = encodedScripts

	return marshalManifest(manifest)
}

// marshalManifest renders the manifest with sorted keys and two-space
// indentation so repeated runs stay byte-identical.
func marshalManifest(manifest map[string]json.RawMessage) ([]byte, error) {
	plain := make(map[string]any, len(manifest))
	for k, raw := range manifest {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		plain[k] = v
	}
	out, err := json.MarshalIndent(plain, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
