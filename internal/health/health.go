// Package health provides the checks behind 'claude-config doctor'. It verifies
// that the configs source can be installed from, that the target directory is
// writable and that the settings files already installed there are valid.
package health

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/typhoonworks/claude-config/internal/catalog"
	"github.com/typhoonworks/claude-config/internal/git"
	"github.com/typhoonworks/claude-config/internal/settings"
)

// Check names.
const (
	NameClaudeCLI = "Claude CLI"
	NameSource    = "Configs source"
	NameTarget    = "Target directory"
	NameSettings  = "Installed settings"
	NameLocal     = "Local settings"
)

// LocalSettingsFile holds per-developer settings that should stay out of git.
const LocalSettingsFile = "settings.local.json"

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks are reported but do not fail the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options selects what the checks look at.
type Options struct {
	Source *catalog.Source
	Target string
	// LookPath finds executables; defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(opts Options) *HealthReport {
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	report := &HealthReport{Passed: true}
	for _, check := range []CheckResult{
		CheckClaudeCLI(lookPath),
		CheckSource(opts.Source),
		CheckTarget(opts.Target),
		CheckInstalledSettings(opts.Target),
		CheckLocalSettingsIgnored(opts.Target),
	} {
		report.Checks = append(report.Checks, check)
		if !check.Passed && !check.Optional {
			report.Passed = false
		}
	}
	return report
}

// CheckClaudeCLI checks if the Claude CLI is available.
// Installing does not need it, so the check is optional.
func CheckClaudeCLI(lookPath func(string) (string, error)) CheckResult {
	if _, err := lookPath("claude"); err != nil {
		return CheckResult{
			Name:     NameClaudeCLI,
			Message:  "claude not found in PATH (installed configs take effect once Claude Code is installed)",
			Optional: true,
		}
	}
	return CheckResult{Name: NameClaudeCLI, Passed: true, Message: "Claude CLI found", Optional: true}
}

// CheckSource checks that the source offers at least one configuration.
func CheckSource(source *catalog.Source) CheckResult {
	cat, err := source.Scan()
	if err != nil {
		return CheckResult{Name: NameSource, Message: fmt.Sprintf("cannot scan %s: %v", source, err)}
	}
	count := catalog.Count(cat)
	if count == 0 {
		return CheckResult{Name: NameSource, Message: fmt.Sprintf("no configurations found in %s", source)}
	}
	return CheckResult{
		Name:    NameSource,
		Passed:  true,
		Message: fmt.Sprintf("%d configurations in %s", count, source),
	}
}

// CheckTarget checks that files can be created in the target directory, or
// that the closest existing parent is a directory when the target does not
// exist yet.
func CheckTarget(target string) CheckResult {
	info, err := os.Stat(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		parent := existingParent(target)
		if parent == "" {
			return CheckResult{Name: NameTarget, Message: fmt.Sprintf("%s cannot be created", target)}
		}
		return CheckResult{
			Name:    NameTarget,
			Passed:  true,
			Message: fmt.Sprintf("%s will be created", target),
		}
	case err != nil:
		return CheckResult{Name: NameTarget, Message: fmt.Sprintf("cannot access %s: %v", target, err)}
	case !info.IsDir():
		return CheckResult{Name: NameTarget, Message: fmt.Sprintf("%s is not a directory", target)}
	}

	probe, err := os.CreateTemp(target, ".claude-config-probe-*")
	if err != nil {
		return CheckResult{Name: NameTarget, Message: fmt.Sprintf("%s is not writable: %v", target, err)}
	}
	probe.Close()
	os.Remove(probe.Name())

	return CheckResult{Name: NameTarget, Passed: true, Message: fmt.Sprintf("%s is writable", target)}
}

// existingParent returns the closest ancestor of path that exists, or "" when
// that ancestor is not a directory.
func existingParent(path string) string {
	dir := filepath.Dir(path)
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if info.IsDir() {
				return dir
			}
			return ""
		}
		next := filepath.Dir(dir)
		if next == dir {
			return ""
		}
		dir = next
	}
}

// CheckInstalledSettings validates every settings file in the target against
// the settings schema. A target without settings passes.
func CheckInstalledSettings(target string) CheckResult {
	installed := catalog.DirSource(target)
	cat, err := installed.Scan()
	if err != nil {
		return CheckResult{Name: NameSettings, Message: fmt.Sprintf("cannot scan %s: %v", target, err)}
	}

	items := cat[catalog.SettingsKey]
	if len(items) == 0 {
		return CheckResult{Name: NameSettings, Passed: true, Message: "no settings installed"}
	}

	var problems []string
	for _, item := range items {
		data, err := installed.ReadItem(item)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if _, err := settings.Check(data, item.Path); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return CheckResult{Name: NameSettings, Message: strings.Join(problems, "; ")}
	}
	return CheckResult{
		Name:    NameSettings,
		Passed:  true,
		Message: fmt.Sprintf("%d settings files valid", len(items)),
	}
}

// CheckLocalSettingsIgnored warns when an installed settings.local.json sits
// in a git repository without being ignored, so that it could be committed.
func CheckLocalSettingsIgnored(target string) CheckResult {
	path := filepath.Join(target, catalog.SettingsKey, LocalSettingsFile)
	result := CheckResult{Name: NameLocal, Optional: true}

	if _, err := os.Stat(path); err != nil {
		result.Passed = true
		result.Message = LocalSettingsFile + " not installed"
		return result
	}

	ignored, err := git.IsIgnored(path)
	switch {
	case errors.Is(err, git.ErrNotRepository):
		result.Passed = true
		result.Message = "target is not in a git repository"
	case err != nil:
		result.Message = fmt.Sprintf("cannot check .gitignore: %v", err)
	case ignored:
		result.Passed = true
		result.Message = LocalSettingsFile + " is ignored by git"
	default:
		result.Message = fmt.Sprintf("%s is not ignored by git; add it to .gitignore", path)
	}
	return result
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var output strings.Builder
	for _, check := range report.Checks {
		mark := "✓"
		switch {
		case check.Passed:
		case check.Optional:
			mark = "○"
		default:
			mark = "✗"
		}
		fmt.Fprintf(&output, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return output.String()
}
