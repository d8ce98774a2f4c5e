package install

import (
	"fmt"

	"github.com/typhoonworks/claude-config/internal/catalog"
)

// InstallError reports the item whose installation aborted the batch.
type InstallError struct {
	Item catalog.Item
	Op   string // Step that failed (read, validate, merge, write, ...)
	Err  error
}

func (e *InstallError) Error() string {
	if e.Item.File == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Item.Category, e.Err)
	}
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Item.Category, e.Item.File, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}
