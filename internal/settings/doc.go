// Package settings merges Claude Code settings documents.
//
// A settings document is a JSON object that may hold a permissions object
// with an allow list. Installing a settings file over an existing one merges
// the allow lists instead of overwriting:
//   - The merged list keeps the target's entries first, then appends source
//     entries not already present, in source order
//   - Merging only happens when both documents have permissions.allow; a
//     target without permissions is left without permissions
//   - Every other key of the target is preserved as-is and source-only keys
//     are never copied
//   - Results are written atomically with 2-space indentation
package settings
