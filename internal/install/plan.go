package install

import (
	"path/filepath"

	"github.com/typhoonworks/claude-config/internal/catalog"
	"github.com/typhoonworks/claude-config/internal/selection"
)

// PlannedItem is the action an install would take for one item.
type PlannedItem struct {
	Item   catalog.Item
	Action Action
	Path   string
}

// Plan computes what Install would do for sel without touching the target.
func (in *Installer) Plan(sel selection.Selection) ([]PlannedItem, error) {
	var plan []PlannedItem
	for _, key := range sel.Keys() {
		for _, item := range sel[key] {
			targetFile := filepath.Join(in.Target, key, item.File)
			exists, err := fileExists(targetFile)
			if err != nil {
				return nil, &InstallError{Item: item, Op: "stat", Err: err}
			}

			action := ActionInstalled
			switch {
			case exists && key == catalog.SettingsKey:
				action = ActionMerged
			case exists:
				action = ActionUpdated
			}
			plan = append(plan, PlannedItem{Item: item, Action: action, Path: targetFile})
		}
	}
	return plan, nil
}
