// Package catalog discovers installable configuration items in a configs tree.
//
// A configs tree holds one subdirectory per known category (commands/*.md,
// settings/*.json). Scanning a tree produces a Catalog mapping each category
// present on disk to its items, sorted by file name.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Category keys for the built-in categories.
const (
	CommandsKey = "commands"
	SettingsKey = "settings"
)

// Category describes one kind of installable item: where it lives in the
// source tree and which file extension identifies its items.
type Category struct {
	Key string // Catalog key and target subdirectory name
	Dir string // Subdirectory of the configs root
	Ext string // File extension including the dot
}

// Categories is the table of known categories in display order.
// Adding a category only requires a new row here.
var Categories = []Category{
	{Key: CommandsKey, Dir: "commands", Ext: ".md"},
	{Key: SettingsKey, Dir: "settings", Ext: ".json"},
}

// Lookup returns the category with the given key.
func Lookup(key string) (Category, bool) {
	for _, c := range Categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// Item is one discovered configuration file.
type Item struct {
	Category string // Category key
	Name     string // File name without extension (display identifier)
	File     string // File name including extension
	Path     string // Source location
}

// Catalog maps category keys to their discovered items.
// A key is present only if the category directory exists in the source.
type Catalog map[string][]Item

// Keys returns the non-empty category keys, known categories first in table
// order, then any other keys sorted alphabetically.
func (c Catalog) Keys() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, cat := range Categories {
		if len(c[cat.Key]) > 0 {
			keys = append(keys, cat.Key)
		}
		seen[cat.Key] = true
	}

	var extra []string
	for key, items := range c {
		if !seen[key] && len(items) > 0 {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)

	return append(keys, extra...)
}

// Count returns the total number of items across all categories.
// Nil or empty category lists contribute zero.
func Count(c Catalog) int {
	total := 0
	for _, items := range c {
		total += len(items)
	}
	return total
}

// Find returns the items matching ref, which is either "category/name" or a
// bare name looked up in every category.
func (c Catalog) Find(ref string) []Item {
	key, name, qualified := strings.Cut(ref, "/")
	if !qualified {
		key, name = "", ref
	}

	var found []Item
	for _, k := range c.Keys() {
		if key != "" && k != key {
			continue
		}
		for _, item := range c[k] {
			if item.Name == name {
				found = append(found, item)
			}
		}
	}
	return found
}

// Source is a configs tree that can be scanned and read from.
type Source struct {
	fsys fs.FS
	root string // slash-separated root inside fsys
	dir  string // OS directory backing fsys, empty for embedded trees
}

// DirSource returns a Source reading from a directory on disk.
func DirSource(dir string) *Source {
	return &Source{fsys: os.DirFS(dir), root: ".", dir: dir}
}

// FSSource returns a Source reading from root inside fsys.
func FSSource(fsys fs.FS, root string) *Source {
	if root == "" {
		root = "."
	}
	return &Source{fsys: fsys, root: root}
}

// Dir returns the OS directory backing the source, or "" for embedded sources.
func (s *Source) Dir() string {
	return s.dir
}

// String describes the source for display.
func (s *Source) String() string {
	if s.dir != "" {
		return s.dir
	}
	return "bundled configs"
}

// Scan lists every known category in the source.
// A missing category directory means the category is not offered.
func (s *Source) Scan() (Catalog, error) {
	cat := make(Catalog)

	for _, c := range Categories {
		items, ok, err := s.scanCategory(c)
		if err != nil {
			return nil, err
		}
		if ok {
			cat[c.Key] = items
		}
	}

	logDebug("[catalog] scanned %s: %d categories, %d items", s, len(cat), Count(cat))
	return cat, nil
}

// scanCategory returns the items of one category and whether its directory exists.
func (s *Source) scanCategory(c Category) ([]Item, bool, error) {
	dirPath := path.Join(s.root, c.Dir)

	entries, err := fs.ReadDir(s.fsys, dirPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) && isNotDir(s.fsys, dirPath) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s directory: %w", c.Dir, err)
	}

	items := []Item{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, c.Ext) {
			continue
		}
		items = append(items, Item{
			Category: c.Key,
			Name:     strings.TrimSuffix(name, c.Ext),
			File:     name,
			Path:     s.itemPath(c, name),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].File < items[j].File
	})

	return items, true, nil
}

// itemPath returns the display path of a file in a category directory.
func (s *Source) itemPath(c Category, name string) string {
	if s.dir != "" {
		return filepath.Join(s.dir, c.Dir, name)
	}
	return path.Join(s.root, c.Dir, name)
}

// ReadItem returns the raw content of an item.
func (s *Source) ReadItem(item Item) ([]byte, error) {
	c, ok := Lookup(item.Category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", item.Category)
	}

	data, err := fs.ReadFile(s.fsys, path.Join(s.root, c.Dir, item.File))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", item.Path, err)
	}
	return data, nil
}

// isNotDir reports whether p exists but is not a directory.
func isNotDir(fsys fs.FS, p string) bool {
	info, err := fs.Stat(fsys, p)
	return err == nil && !info.IsDir()
}

// Scan scans the configs tree rooted at the given directory.
func Scan(sourceRoot string) (Catalog, error) {
	return DirSource(sourceRoot).Scan()
}
