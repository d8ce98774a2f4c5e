package errors

import "fmt"

// Common error messages for the claude-config CLI.

// SourceNotFound creates an error for a configs source directory that does not exist.
func SourceNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("configs source not found: %s", path),
		"Check the --source flag or source_dir in your config",
		"Omit --source to install the bundled configurations",
	)
}

// NoConfigurations creates an error when a source offers nothing to install.
func NoConfigurations(source string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("no configurations found in %s", source),
		"A configs source needs a commands/ or settings/ directory",
		"Commands are *.md files, settings are *.json files",
	)
}

// SettingsParseError creates an error for a settings file that is not a JSON object.
func SettingsParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to parse settings file: %s", path),
		"Check the file for JSON syntax errors",
		"Validate with: jq . "+path,
	)
}

// SettingsInvalid creates an error for a settings file that violates the settings schema.
func SettingsInvalid(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("invalid settings file: %s", path),
		"permissions must be an object",
		"permissions.allow, deny and ask must be arrays of non-empty strings",
	)
}

// InstallFailed creates an error for an install that aborted part way.
func InstallFailed(err error, installed int) *CLIError {
	remediation := []string{
		"Fix the problem above and run claude-config again",
	}
	if installed > 0 {
		remediation = append(remediation,
			fmt.Sprintf("%d item(s) were installed before the failure and were kept", installed))
	}
	return WrapWithMessage(err, Runtime, "installation failed", remediation...)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'claude-config --help' to see valid options",
	)
}

// ConfigParseError creates an error for invalid config file format.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to parse config file: %s", path),
		"Check the file for YAML syntax errors",
		"Remove the file to fall back to defaults",
	)
}

// WatchRequiresDirectory creates an error when watch is used with the bundled configs.
func WatchRequiresDirectory() *CLIError {
	return NewArgumentError(
		"watch needs a configs directory",
		"The bundled configurations never change while claude-config runs",
		"Set source_dir in your config or pass --source",
	).WithUsage("claude-config watch --source <dir>")
}

// TargetNotWritable creates an error when the target directory cannot be created.
func TargetNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to target directory: %s", path),
		"Check directory permissions: ls -la "+path,
		"Or choose another location with --target",
	)
}
