// Package configs embeds the configuration assets that claude-config installs.
//
// The tree mirrors the on-disk source layout: commands/*.md holds slash command
// definitions and settings/*.json holds Claude Code settings documents.
package configs

import "embed"

// FS contains every bundled category directory. Use it as the default
// install source when no --source directory is given.
//
//go:embed all:commands all:settings
var FS embed.FS

// Root is the directory inside FS that acts as the configs root.
const Root = "."
