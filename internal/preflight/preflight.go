package preflight

import (
	"fmt"
	"strings"

	"dubscore/internal/config"
	"dubscore/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name" yaml:"name"`
	Passed bool   `json:"passed" yaml:"passed"`
	Detail string `json:"detail" yaml:"detail"`
}

// RunAll executes every check for a run writing into outputDir.
func RunAll(cfg *config.Config, outputDir string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, fromStatus(status))
	}

	// The output dir may not exist yet; its nearest existing ancestor decides.
	target := ExistingAncestor(outputDir)
	results = append(results, CheckDirectoryAccess("Output directory", target))
	if cfg.Analysis.MinFreeMiB > 0 {
		results = append(results, CheckFreeSpace("Free space", target, cfg.Analysis.MinFreeMiB))
	}
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summary joins failed checks into one line for error messages.
func Summary(failed []Result) string {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return strings.Join(parts, "; ")
}

func fromStatus(status deps.Status) Result {
	if status.Available {
		return Result{Name: status.Name, Passed: true, Detail: status.Path}
	}
	return Result{Name: status.Name, Passed: status.Optional, Detail: status.Detail}
}
