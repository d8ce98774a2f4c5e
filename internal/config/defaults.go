package config

import "time"

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"source_dir":          "",    // Empty installs the bundled configs
		"target_dir":          "",    // Empty resolves to <project>/.claude
		"skip_confirmations":  false, // Interactive selection by default
		"use_repo_root":       true,
		"watch_debounce":      (300 * time.Millisecond).String(),
		"state_dir":           "", // Empty resolves to $XDG_STATE_HOME/claude-config
		"max_history_entries": 500,
	}
}
