package settings

import (
	"fmt"
	"os"
)

// MergeResult describes the outcome of merging a source document into a target file.
type MergeResult struct {
	// Path is the target file that was rewritten.
	Path string
	// Added lists the permissions appended to the target allow list.
	Added []string
}

// MergeDocuments merges source's permissions.allow into target and returns the
// permissions that were added. It is a no-op unless both documents have a
// permissions.allow list. Nothing else in target is modified.
func MergeDocuments(source, target *Document) []string {
	targetAllow, ok := target.rawAllowList()
	if !ok {
		logDebug("[settings] %s has no permissions.allow, leaving it unchanged", target.filePath)
		return nil
	}
	sourceAllow, ok := source.rawAllowList()
	if !ok {
		logDebug("[settings] %s has no permissions.allow, nothing to merge", source.filePath)
		return nil
	}

	seen := make(map[string]bool, len(targetAllow)+len(sourceAllow))
	merged := make([]interface{}, 0, len(targetAllow)+len(sourceAllow))

	for _, entry := range targetAllow {
		perm, isString := entry.(string)
		if !isString {
			merged = append(merged, entry)
			continue
		}
		if seen[perm] {
			continue
		}
		seen[perm] = true
		merged = append(merged, perm)
	}

	var added []string
	for _, entry := range sourceAllow {
		perm, isString := entry.(string)
		if !isString || seen[perm] {
			continue
		}
		seen[perm] = true
		merged = append(merged, perm)
		added = append(added, perm)
	}

	perms, _ := target.permissions()
	perms[AllowKey] = merged

	logDebug("[settings] merged %d new permissions into %s", len(added), target.filePath)
	return added
}

// Merge merges the settings file at sourcePath into the file at targetPath
// and rewrites the target.
func Merge(sourcePath, targetPath string) (*MergeResult, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: sourcePath}
		}
		return nil, fmt.Errorf("reading settings file %s: %w", sourcePath, err)
	}
	return MergeData(data, sourcePath, targetPath)
}

// MergeData merges an in-memory source document into the file at targetPath.
// sourceName identifies the source in error messages.
func MergeData(source []byte, sourceName, targetPath string) (*MergeResult, error) {
	src, err := Parse(source, sourceName)
	if err != nil {
		return nil, err
	}

	target, err := Load(targetPath)
	if err != nil {
		return nil, err
	}

	added := MergeDocuments(src, target)

	if err := target.SaveTo(targetPath); err != nil {
		return nil, fmt.Errorf("saving %s: %w", targetPath, err)
	}

	return &MergeResult{Path: targetPath, Added: added}, nil
}

// MissingPermissions returns the source allow entries absent from target.
// Returns nil when either document has no permissions.allow list.
func MissingPermissions(source, target *Document) []string {
	if !source.HasAllowList() || !target.HasAllowList() {
		return nil
	}

	have := make(map[string]bool)
	for _, p := range target.AllowList() {
		have[p] = true
	}

	var missing []string
	for _, p := range source.AllowList() {
		if !have[p] {
			have[p] = true
			missing = append(missing, p)
		}
	}
	return missing
}

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for settings operations.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}
