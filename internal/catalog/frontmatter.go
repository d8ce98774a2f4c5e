package catalog

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header of a command definition.
type Frontmatter struct {
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

// ParseFrontmatter extracts the YAML frontmatter of a markdown command file.
func ParseFrontmatter(content []byte) (Frontmatter, error) {
	if !bytes.HasPrefix(content, []byte("---")) {
		return Frontmatter{}, fmt.Errorf("no frontmatter found")
	}

	rest := content[3:]
	endIdx := bytes.Index(rest, []byte("\n---"))
	if endIdx == -1 {
		return Frontmatter{}, fmt.Errorf("frontmatter not closed")
	}

	fmContent := bytes.TrimPrefix(rest[:endIdx], []byte("\r"))
	fmContent = bytes.TrimPrefix(fmContent, []byte("\n"))

	var fm Frontmatter
	if err := yaml.Unmarshal(fmContent, &fm); err != nil {
		return Frontmatter{}, fmt.Errorf("invalid frontmatter: %w", err)
	}

	return fm, nil
}

// StripFrontmatter returns the markdown after the frontmatter block, or the
// content unchanged when it has no complete frontmatter.
func StripFrontmatter(content []byte) []byte {
	if !bytes.HasPrefix(content, []byte("---")) {
		return content
	}
	rest := content[3:]
	endIdx := bytes.Index(rest, []byte("\n---"))
	if endIdx == -1 {
		return content
	}
	body := rest[endIdx+len("\n---"):]
	if nl := bytes.IndexByte(body, '\n'); nl != -1 {
		return body[nl+1:]
	}
	return nil
}
