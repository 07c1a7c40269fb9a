// Package load reads entity-schema and table-topology documents from disk
// and decodes them into schema values for the generator. It applies only the
// structural invariants the generator depends on (identity arity, identity
// fields existing); full schema validation happens upstream.
package load

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/dynagen/schema"
)

// Schemas reads one or more entity schemas from path. A directory is read
// non-recursively; every .yaml/.yml/.json file in it is decoded as one
// schema document. Results are ordered by file name so a batch is stable
// across runs.
func Schemas(path string) ([]*schema.Schema, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load: stat %s: %w", path, err)
	}
	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("load: read dir %s: %w", path, err)
		}
		for _, e := range entries {
			if e.IsDir() || !schemaFile(e.Name()) {
				continue
			}
			files = append(files, filepath.Join(path, e.Name()))
		}
		sort.Strings(files)
		if len(files) == 0 {
			return nil, fmt.Errorf("load: no schema documents in %s", path)
		}
	} else {
		files = []string{path}
	}
	schemas := make([]*schema.Schema, 0, len(files))
	for _, file := range files {
		s, err := schemaFromFile(file)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

// TableMetadata reads a table-topology document. An empty path returns
// (nil, nil): topology is optional.
func TableMetadata(path string) (*schema.TableMetadata, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read %s: %w", path, err)
	}
	table := &schema.TableMetadata{}
	if err := yaml.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("load: decode %s: %w", path, err)
	}
	if table.TableName == "" {
		return nil, fmt.Errorf("load: %s: table metadata is missing tableName", path)
	}
	return table, nil
}

func schemaFromFile(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read %s: %w", path, err)
	}
	s := &schema.Schema{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("load: decode %s: %w", path, err)
	}
	if err := check(s); err != nil {
		return nil, fmt.Errorf("load: %s: %w", path, err)
	}
	return s, nil
}

// check applies the invariants the generator assumes of an already-validated
// schema document.
func check(s *schema.Schema) error {
	if s.EntityName == "" {
		return fmt.Errorf("schema is missing entityName")
	}
	n := len(s.Identity.Fields)
	if n < 1 || n > 2 {
		return fmt.Errorf("entity %s: identity must declare 1 or 2 fields, got %d", s.EntityName, n)
	}
	for _, name := range s.Identity.Fields {
		if s.FieldByName(name) == nil {
			return fmt.Errorf("entity %s: identity field %q is not declared in fields", s.EntityName, name)
		}
	}
	return nil
}

func schemaFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
