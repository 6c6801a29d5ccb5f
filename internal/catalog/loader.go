package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Load reads lessons from the given files and directories, walking
// directories for .json files. Later sources extend lessons declared by
// earlier ones under the same key. With no paths the embedded catalog is
// returned.
func Load(paths ...string) (*Catalog, error) {
	if len(paths) == 0 {
		return Default(), nil
	}

	c := newCatalog()
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat catalog %s: %w", root, err)
		}
		if !info.IsDir() {
			c.loadFile(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
				return nil
			}
			c.loadFile(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk catalog %s: %w", root, err)
		}
	}
	return c, nil
}

func (c *Catalog) loadFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		c.reject(path, "", "read error: "+err.Error())
		return
	}
	parsed, err := Parse(data, path)
	if err != nil {
		c.reject(path, "", err.Error())
		return
	}
	for _, d := range parsed.lessons {
		c.add(d, path)
	}
	c.rejects = append(c.rejects, parsed.rejects...)
}
