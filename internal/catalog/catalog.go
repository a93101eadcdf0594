// Package catalog loads the static context the assistant works from: the
// database schema description and the product image catalog.
//
// Both are read once at startup and immutable for the process lifetime; they
// are used only as prompt context.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// imageExtensions are the file extensions recognized as catalog images.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// LoadSchema reads the schema description file.
// The file is required: a missing or unreadable file is a startup error.
func LoadSchema(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading schema description %q: %w", path, err)
	}
	return string(data), nil
}

// Images is the immutable name-to-filename mapping of available image assets,
// together with the public base URL they are served from.
type Images struct {
	baseURL string
	files   map[string]string // stem -> filename
}

// Scan builds the image catalog from the entries of dir.
// Only files with recognized image extensions are included, keyed by their
// stem (filename without extension). A missing directory is not an error; it
// yields an empty catalog.
func Scan(dir, baseURL string) (*Images, error) {
	c := &Images{
		baseURL: strings.TrimRight(baseURL, "/"),
		files:   make(map[string]string),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("reading image directory %q: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !imageExtensions[ext] {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		c.files[stem] = name
	}

	return c, nil
}

// Len returns the number of catalog entries.
func (c *Images) Len() int {
	return len(c.files)
}

// Names returns the sorted asset names.
func (c *Images) Names() []string {
	names := make([]string, 0, len(c.files))
	for name := range c.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// URL returns the public URL for the named asset and whether it exists.
func (c *Images) URL(name string) (string, bool) {
	file, ok := c.files[name]
	if !ok {
		return "", false
	}
	return c.baseURL + "/" + file, true
}

// BaseURL returns the public URL prefix images are served from.
func (c *Images) BaseURL() string {
	return c.baseURL
}

// Listing renders the catalog as "- name: URL" lines for prompt embedding.
// An empty catalog yields an empty string.
func (c *Images) Listing() string {
	var b strings.Builder
	for i, name := range c.Names() {
		if i > 0 {
			b.WriteByte('\n')
		}
		url, _ := c.URL(name)
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(url)
	}
	return b.String()
}
