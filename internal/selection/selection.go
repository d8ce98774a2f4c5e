// Package selection resolves which catalog items get installed, either from
// command-line filter flags or from answers given to an interactive Chooser.
package selection

import (
	"fmt"

	"github.com/typhoonworks/claude-config/internal/catalog"
)

// Selection is the subset of a catalog chosen for installation.
// It has the same shape as a Catalog; empty categories are omitted.
type Selection = catalog.Catalog

// Flags holds the category filter flags. Both false means no filter.
type Flags struct {
	Commands bool
	Settings bool
}

// Any reports whether at least one filter flag is set.
func (f Flags) Any() bool {
	return f.Commands || f.Settings
}

// keys returns the category keys requested by the flags.
func (f Flags) keys() []string {
	var keys []string
	if f.Commands {
		keys = append(keys, catalog.CommandsKey)
	}
	if f.Settings {
		keys = append(keys, catalog.SettingsKey)
	}
	return keys
}

// ResolveByFlags filters the catalog by the given flags.
// Without flags the catalog is returned unchanged. Requested categories that
// are absent from the catalog are omitted, never fabricated.
func ResolveByFlags(cat catalog.Catalog, flags Flags) Selection {
	if !flags.Any() {
		return cat
	}

	sel := make(Selection)
	for _, key := range flags.keys() {
		if items, ok := cat[key]; ok && items != nil {
			sel[key] = items
		}
	}
	return sel
}

// Chooser asks the user which categories and items to install.
// Implementations own all terminal interaction.
type Chooser interface {
	// ConfirmAll asks whether to install everything.
	ConfirmAll(total int) (bool, error)
	// ChooseCategories returns the keys of the categories to install.
	ChooseCategories(cat catalog.Catalog) ([]string, error)
	// ConfirmCategory asks whether to install every item of a category.
	ConfirmCategory(key string, count int) (bool, error)
	// ChooseItems returns the chosen subset of a category's items.
	ChooseItems(key string, items []catalog.Item) ([]catalog.Item, error)
}

// ResolveInteractively builds a selection from the chooser's answers.
// Choosing no categories yields an empty selection, which is a valid
// (empty) install rather than an error.
func ResolveInteractively(cat catalog.Catalog, chooser Chooser) (Selection, error) {
	all, err := chooser.ConfirmAll(catalog.Count(cat))
	if err != nil {
		return nil, fmt.Errorf("confirming full install: %w", err)
	}
	if all {
		return cat, nil
	}

	keys, err := chooser.ChooseCategories(cat)
	if err != nil {
		return nil, fmt.Errorf("choosing categories: %w", err)
	}

	sel := make(Selection)
	for _, key := range keys {
		items, ok := cat[key]
		if !ok {
			logDebug("[selection] ignoring unknown category %q", key)
			continue
		}

		whole, err := chooser.ConfirmCategory(key, len(items))
		if err != nil {
			return nil, fmt.Errorf("confirming %s: %w", key, err)
		}
		if whole {
			sel[key] = items
			continue
		}

		chosen, err := chooser.ChooseItems(key, items)
		if err != nil {
			return nil, fmt.Errorf("choosing %s: %w", key, err)
		}
		if len(chosen) > 0 {
			sel[key] = chosen
		}
	}

	return sel, nil
}

// CountItems returns the number of items in a catalog or selection.
func CountItems(sel Selection) int {
	return catalog.Count(sel)
}

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for selection resolution.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}
