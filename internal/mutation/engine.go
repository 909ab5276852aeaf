// Package mutation edits an app tree in place using the oracle as an
// untrusted code transformer. Every write is preceded by a .bak backup of the
// pre-mutation content; the backups are the sole rollback mechanism.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"appweld/internal/generator"
	"appweld/internal/model"
	"appweld/internal/oracle"
	"appweld/internal/platform"
)

const lockFileName = ".appweld.lock"

// ErrBusy means another mutation run holds the app tree's lock file.
var ErrBusy = errors.New("app tree is locked by another mutation run")

// Change records the outcome for one edit directive.
type Change struct {
	File    string `json:"file"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Diff    string `json:"diff,omitempty"` // unified diff for operator review
}

// Report aggregates the per-file outcomes of one mutation run.
type Report struct {
	Changes []Change `json:"changes"`
}

// Engine drives the two-phase mutation protocol against one app tree.
type Engine struct {
	oracle oracle.Oracle
	log    *slog.Logger
}

func New(o oracle.Oracle, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{oracle: o, log: log}
}

// Mutate plans edits with one oracle call, then applies each directive
// independently: read current content, ask the oracle for a full
// replacement, back up, write. One directive's failure never aborts the
// rest. Only an unreachable oracle during planning aborts the whole batch,
// and that happens before any write.
func (e *Engine) Mutate(ctx context.Context, appRoot string, m *model.AppModel, prefs generator.Preferences) (*Report, error) {
	if _, err := os.Stat(appRoot); err != nil {
		return nil, fmt.Errorf("app root %s: %w", appRoot, err)
	}

	unlock, err := acquireLock(appRoot)
	if err != nil {
		return nil, err
	}
	defer unlock()

	planText, err := e.oracle.PlanEdits(ctx, platform.ContextDocument, summarize(m, prefs))
	if err != nil {
		return nil, fmt.Errorf("oracle unreachable, no edits attempted: %w", err)
	}

	directives := ParseDirectives(planText)
	e.log.Info("mutation plan parsed", "directives", len(directives))

	report := &Report{Changes: []Change{}}
	for _, d := range directives {
		report.Changes = append(report.Changes, e.apply(ctx, appRoot, d))
	}
	return report, nil
}

// apply executes one directive. It refuses paths that escape the app root,
// backs up pre-existing targets to <path>.bak (last mutation wins), and
// treats a missing target as an empty current file.
func (e *Engine) apply(ctx context.Context, appRoot string, d Directive) Change {
	change := Change{File: d.FilePath}

	if !filepath.IsLocal(filepath.FromSlash(d.FilePath)) {
		change.Error = fmt.Sprintf("path %q escapes the app root", d.FilePath)
		return change
	}
	target := filepath.Join(appRoot, filepath.FromSlash(d.FilePath))

	current, err := os.ReadFile(target)
	existed := err == nil
	if err != nil && !os.IsNotExist(err) {
		change.Error = fmt.Sprintf("read: %v", err)
		return change
	}

	proposed, err := e.oracle.RewriteFile(ctx, d.Rationale, string(current))
	if err != nil {
		change.Error = fmt.Sprintf("oracle rewrite: %v", err)
		return change
	}

	if existed {
		if err := os.WriteFile(target+".bak", current, 0644); err != nil {
			change.Error = fmt.Sprintf("backup: %v", err)
			return change
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		change.Error = fmt.Sprintf("mkdir: %v", err)
		return change
	}
	if err := os.WriteFile(target, []byte(proposed), 0644); err != nil {
		change.Error = fmt.Sprintf("write: %v", err)
		return change
	}

	change.Success = true
	change.Diff, _ = difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(proposed),
		FromFile: "a/" + d.FilePath,
		ToFile:   "b/" + d.FilePath,
		Context:  3,
	})
	return change
}

// acquireLock creates the app-root lock file exclusively. A pre-existing
// lock means a concurrent run: fail fast instead of racing on the tree.
func acquireLock(appRoot string) (func(), error) {
	lockPath := filepath.Join(appRoot, lockFileName)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%s: %w", lockPath, ErrBusy)
		}
		return nil, err
	}
	_ = f.Close()
	return func() { _ = os.Remove(lockPath) }, nil
}
