package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Keys of the permissions section in a settings document.
const (
	PermissionsKey = "permissions"
	AllowKey       = "allow"
)

// Document is a settings file with flexible JSON structure.
// Uses map[string]interface{} to preserve unknown fields during modification.
type Document struct {
	data     map[string]interface{}
	order    keyOrder
	filePath string
}

// Parse decodes a settings document. The name is used in error messages.
// The document must be a JSON object.
func Parse(data []byte, name string) (*Document, error) {
	doc := &Document{filePath: name}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc.data); err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	if dec.More() {
		return nil, &ParseError{Path: name, Err: errors.New("unexpected data after top-level object")}
	}
	if doc.data == nil {
		return nil, &ParseError{Path: name, Err: errors.New("top-level value must be an object")}
	}

	order, err := readKeyOrder(data)
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	doc.order = order

	return doc, nil
}

// Load reads and parses the settings file at path.
// Returns a *NotFoundError if the file does not exist and a *ParseError if it
// is not a JSON object.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}
	return Parse(data, path)
}

// FilePath returns the path the document was loaded from.
func (d *Document) FilePath() string {
	return d.filePath
}

// Get returns a top-level value.
func (d *Document) Get(key string) (interface{}, bool) {
	v, ok := d.data[key]
	return v, ok
}

// permissions returns the permissions object if present.
// Unlike a setter, it never creates the object.
func (d *Document) permissions() (map[string]interface{}, bool) {
	perms, ok := d.data[PermissionsKey].(map[string]interface{})
	return perms, ok
}

// rawAllowList returns permissions.allow if the document has one.
func (d *Document) rawAllowList() ([]interface{}, bool) {
	perms, ok := d.permissions()
	if !ok {
		return nil, false
	}
	allow, ok := perms[AllowKey].([]interface{})
	return allow, ok
}

// HasAllowList reports whether the document contains a permissions.allow list.
func (d *Document) HasAllowList() bool {
	_, ok := d.rawAllowList()
	return ok
}

// AllowList returns the string entries of permissions.allow.
func (d *Document) AllowList() []string {
	allow, _ := d.rawAllowList()
	return interfaceSliceToStrings(allow)
}

// interfaceSliceToStrings returns the string elements of a decoded JSON array.
func interfaceSliceToStrings(slice []interface{}) []string {
	result := make([]string, 0, len(slice))
	for _, item := range slice {
		if str, ok := item.(string); ok {
			result = append(result, str)
		}
	}
	return result
}

// Marshal encodes the document with 2-space indentation and a trailing newline.
// Object members keep the order they had in the parsed file.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, d.data, "", "", d.order); err != nil {
		return nil, fmt.Errorf("serializing settings: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// SaveTo writes the document to path using an atomic write.
func (d *Document) SaveTo(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

// atomicWrite writes data to a file atomically using temp file + rename.
func atomicWrite(filePath string, data []byte) error {
	dir := filepath.Dir(filePath)
	tmpFile, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	// CreateTemp creates files with mode 0600.
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting permissions on temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filePath); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", filePath, err)
	}

	tmpPath = ""
	return nil
}
