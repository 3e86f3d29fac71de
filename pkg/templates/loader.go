package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
)

// ErrNotFound is returned by Store.Get for unknown template ids.
var ErrNotFound = errors.New("templates: template not found")

// Store holds validated templates keyed by id.
type Store struct {
	templates map[string]model.FormTemplate
	sources   map[string]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		templates: make(map[string]model.FormTemplate),
		sources:   make(map[string]string),
	}
}

// LoadFS walks fsys and parses every JSON/YAML template file. A file holds
// either a single template or a `templates:` list. When fsys is nil the
// returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isTemplateFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("templates: read %s: %w", path, err)
		}

		parsed, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, tpl := range parsed {
			if err := store.add(tpl, path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

type documentFile struct {
	Templates []model.FormTemplate `json:"templates" yaml:"templates"`
}

// Parse decodes one template document. JSON is tried first, then YAML.
// Every decoded template is validated.
func Parse(data []byte, source string) ([]model.FormTemplate, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("templates: file %s is empty", source)
	}

	out, err := decode(data, source)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("templates: %s: %w", source, err)
		}
	}
	return out, nil
}

func decode(data []byte, source string) ([]model.FormTemplate, error) {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil {
		if len(doc.Templates) > 0 {
			return doc.Templates, nil
		}
		var single model.FormTemplate
		if err := json.Unmarshal(data, &single); err == nil && single.ID != "" {
			return []model.FormTemplate{single}, nil
		}
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Templates) > 0 {
		return doc.Templates, nil
	}
	var single model.FormTemplate
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("templates: parse %s: invalid JSON or YAML: %w", source, err)
	}
	if single.ID == "" {
		return nil, fmt.Errorf("templates: parse %s: no template id found", source)
	}
	return []model.FormTemplate{single}, nil
}

// Add validates and registers tpl.
func (s *Store) Add(tpl model.FormTemplate) error {
	if err := tpl.Validate(); err != nil {
		return err
	}
	return s.add(tpl, "")
}

func (s *Store) add(tpl model.FormTemplate, source string) error {
	id := strings.TrimSpace(tpl.ID)
	if prev, exists := s.sources[id]; exists {
		return fmt.Errorf("templates: duplicate template %q (%s and %s)", id, displaySource(prev), displaySource(source))
	}
	s.templates[id] = tpl
	s.sources[id] = source
	return nil
}

// Merge copies every template of other into s. Duplicates are an error.
func (s *Store) Merge(other *Store) error {
	if other == nil {
		return nil
	}
	for _, id := range other.IDs() {
		if err := s.add(other.templates[id], other.sources[id]); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a copy of the template registered under id.
func (s *Store) Get(id string) (model.FormTemplate, error) {
	if s != nil {
		if tpl, ok := s.templates[id]; ok {
			return tpl.Clone(), nil
		}
	}
	return model.FormTemplate{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// IDs lists template ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.templates))
	for id := range s.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns every template sorted by id.
func (s *Store) List() []model.FormTemplate {
	ids := s.IDs()
	out := make([]model.FormTemplate, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.templates[id].Clone())
	}
	return out
}

// Empty reports whether the store holds any templates.
func (s *Store) Empty() bool {
	return s == nil || len(s.templates) == 0
}

func displaySource(source string) string {
	if source == "" {
		return "<programmatic>"
	}
	return source
}

func isTemplateFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
