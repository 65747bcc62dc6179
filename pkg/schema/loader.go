package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Tasks []taskFile `json:"tasks" yaml:"tasks"`
}

type taskFile struct {
	TaskSchema `yaml:",inline"`
	Order      *int `json:"order,omitempty" yaml:"order,omitempty"`
}

type loadedTask struct {
	schema   TaskSchema
	order    int
	explicit bool
	seq      int
	source   string
}

// LoadFS walks the provided filesystem and parses JSON/YAML task documents
// into a Registry. Tasks are ordered by their optional `order` key, then by
// discovery order (lexical path order, then position within the file).
func LoadFS(fsys fs.FS) (*Registry, error) {
	if fsys == nil {
		return nil, fmt.Errorf("schema: filesystem is required")
	}

	var tasks []loadedTask
	seen := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for _, raw := range doc.Tasks {
			task := normaliseTask(raw.TaskSchema)
			if prev, exists := seen[task.Name]; exists {
				return fmt.Errorf("schema: duplicate task %q (files %s and %s)", task.Name, prev, path)
			}
			seen[task.Name] = path

			loaded := loadedTask{schema: task, seq: len(tasks), source: path}
			if raw.Order != nil {
				loaded.order = *raw.Order
				loaded.explicit = true
			}
			tasks = append(tasks, loaded)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.explicit != b.explicit {
			return a.explicit
		}
		if a.explicit && a.order != b.order {
			return a.order < b.order
		}
		return a.seq < b.seq
	})

	registry := &Registry{schemas: make(map[string]TaskSchema, len(tasks))}
	for _, task := range tasks {
		if err := registry.Register(task.schema); err != nil {
			return nil, fmt.Errorf("%w (file %s)", err, task.source)
		}
	}
	return registry, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("schema: file %s is empty", source)
	}

	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("schema: parse %s: %w", source, err)
		}
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("schema: parse %s: %w", source, err)
	}
	return doc, nil
}

func normaliseTask(task TaskSchema) TaskSchema {
	task.Name = strings.TrimSpace(task.Name)
	task.ModelRef = strings.TrimSpace(task.ModelRef)
	for i, feature := range task.Features {
		feature.Name = strings.TrimSpace(feature.Name)
		feature.Label = strings.TrimSpace(feature.Label)
		if feature.Label == "" {
			feature.Label = DefaultLabeler(feature.Name)
		}
		if feature.Name == "" {
			feature.Name = Slug(feature.Label)
		}
		feature.Kind = Kind(strings.ToLower(strings.TrimSpace(string(feature.Kind))))
		task.Features[i] = feature
	}
	return task
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
