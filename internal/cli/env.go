package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/typhoonworks/claude-config/configs"
	"github.com/typhoonworks/claude-config/internal/catalog"
	"github.com/typhoonworks/claude-config/internal/config"
	apperrors "github.com/typhoonworks/claude-config/internal/errors"
	"github.com/typhoonworks/claude-config/internal/git"
	"github.com/typhoonworks/claude-config/internal/history"
	"github.com/typhoonworks/claude-config/internal/install"
	"github.com/typhoonworks/claude-config/internal/progress"
	"github.com/typhoonworks/claude-config/internal/selection"
	"github.com/typhoonworks/claude-config/internal/settings"
	"github.com/typhoonworks/claude-config/internal/watch"
)

// isTerminalFunc reports whether stdin is an interactive terminal.
// Replaced in tests.
var isTerminalFunc = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// isStdoutTerminalFunc reports whether stdout is a terminal. Replaced in tests.
var isStdoutTerminalFunc = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// lookPathFunc finds executables for the doctor checks. Replaced in tests.
var lookPathFunc = exec.LookPath

// session is the resolved configuration of one command invocation.
type session struct {
	cfg     *config.Configuration
	source  *catalog.Source
	target  string
	history *history.Writer
}

// newSession loads configuration and resolves the source and target directories.
// Flags take precedence over config values.
func newSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	sourceDir := cfg.SourceDir
	if opts.sourceDir != "" {
		sourceDir = opts.sourceDir
	}
	source, err := resolveSource(sourceDir)
	if err != nil {
		return nil, err
	}

	target := cfg.TargetDir
	if opts.targetDir != "" {
		target = opts.targetDir
	}
	if target == "" {
		target, err = defaultTarget(cfg.UseRepoRoot)
		if err != nil {
			return nil, err
		}
	}

	if sourceDir != "" && sameDir(sourceDir, target) {
		return nil, apperrors.InvalidFlagCombination("--source "+sourceDir+" --target "+target,
			"The source and target must be different directories")
	}

	log.Debugf("source: %s, target: %s", source, target)
	return &session{
		cfg:     cfg,
		source:  source,
		target:  target,
		history: historyWriter(cfg, cmd.ErrOrStderr()),
	}, nil
}

// historyWriter returns the install history writer, or nil when no state
// directory can be determined.
func historyWriter(cfg *config.Configuration, warnings io.Writer) *history.Writer {
	stateDir := cfg.StateDir
	if stateDir == "" {
		dir, err := history.DefaultStateDir()
		if err != nil {
			log.Debugf("install history disabled: %v", err)
			return nil
		}
		stateDir = dir
	}
	w := history.NewWriter(stateDir, cfg.MaxHistoryEntries)
	w.Warnings = warnings
	return w
}

// loadConfig loads the layered configuration, honouring --config.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: opts.configPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		path := opts.configPath
		if path == "" {
			path = config.ProjectConfigPath()
		}
		return nil, apperrors.ConfigParseError(path, err)
	}
	return cfg, nil
}

// resolveSource returns the bundled configs for an empty dir and a directory
// source otherwise.
func resolveSource(dir string) (*catalog.Source, error) {
	if dir == "" {
		return catalog.FSSource(configs.FS, configs.Root), nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, apperrors.SourceNotFound(dir)
	}
	return catalog.DirSource(dir), nil
}

// defaultTarget returns <root>/.claude, where root is the enclosing git
// repository when useRepoRoot is set and the working directory otherwise.
func defaultTarget(useRepoRoot bool) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}

	root := cwd
	if useRepoRoot {
		if repoRoot, err := git.RepositoryRoot(cwd); err == nil {
			root = repoRoot
		} else if !errors.Is(err, git.ErrNotRepository) {
			log.Debugf("repository lookup failed, using %s: %v", cwd, err)
		}
	}
	return filepath.Join(root, ".claude"), nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// scan lists the source and fails when it offers nothing to install.
func (s *session) scan() (catalog.Catalog, error) {
	cat, err := s.source.Scan()
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.source, err)
	}
	if catalog.Count(cat) == 0 {
		return nil, apperrors.NoConfigurations(s.source.String())
	}
	return cat, nil
}

// installer returns an Installer reporting progress to w.
func (s *session) installer(w io.Writer) *install.Installer {
	in := install.New(s.source, s.target)
	in.Progress = progress.NewDisplay(w, terminalCapabilities(w))
	return in
}

// terminalCapabilities detects terminal features when w is a file.
// Any other writer gets plain output.
func terminalCapabilities(w io.Writer) progress.TerminalCapabilities {
	if f, ok := w.(*os.File); ok {
		return progress.DetectTerminalCapabilities(f)
	}
	return progress.TerminalCapabilities{}
}

// configureDebugLogging routes the debug hooks of every package to a
// charmbracelet logger on w, or silences them.
func configureDebugLogging(w io.Writer, enabled bool) {
	if !enabled {
		log.SetLevel(log.InfoLevel)
		setDebugLoggers(nil)
		return
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "claude-config",
		Level:           log.DebugLevel,
		ReportTimestamp: true,
	})
	log.SetDefault(logger)
	setDebugLoggers(logger.Debugf)
}

func setDebugLoggers(fn func(format string, args ...any)) {
	catalog.SetDebugLogger(fn)
	selection.SetDebugLogger(fn)
	settings.SetDebugLogger(fn)
	install.SetDebugLogger(fn)
	git.SetDebugLogger(fn)
	history.SetDebugLogger(fn)
	watch.SetDebugLogger(fn)
}

// installError converts an install failure into a user-facing error.
func installError(err error, report *install.Report) error {
	var parseErr *settings.ParseError
	if errors.As(err, &parseErr) {
		return apperrors.SettingsParseError(parseErr.Path, err)
	}
	var schemaErr *settings.SchemaError
	if errors.As(err, &schemaErr) {
		return apperrors.SettingsInvalid(schemaErr.Path, err)
	}
	var pathErr *fs.PathError
	var installErr *install.InstallError
	if errors.As(err, &installErr) && installErr.Op == "create directory" && errors.As(err, &pathErr) {
		return apperrors.TargetNotWritable(pathErr.Path, err)
	}

	installed := 0
	if report != nil {
		installed = report.Total
	}
	return apperrors.InstallFailed(err, installed)
}
