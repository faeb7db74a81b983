package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"mergington-activities/internal/registry"
)

//go:embed default_catalog.json
var defaultCatalog []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(JSONSchema))
	})
	return schema, schemaErr
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// LoadOrDefault loads path, or the embedded catalog when path is empty.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse validates data against JSONSchema and the semantic rules, then
// decodes it.
func Parse(data []byte) (*Catalog, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid catalog document: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("catalog schema validation failed: %s", strings.Join(msgs, "; "))
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]struct{}, len(c.Activities))
	for _, a := range c.Activities {
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("duplicate activity %q", a.Name)
		}
		seen[a.Name] = struct{}{}
		if len(a.Participants) > a.MaxParticipants {
			return fmt.Errorf("activity %q: %d participants exceed max_participants %d",
				a.Name, len(a.Participants), a.MaxParticipants)
		}
	}
	return nil
}

// Find returns the activity with the given name.
func (c *Catalog) Find(name string) (*Activity, bool) {
	for i := range c.Activities {
		if c.Activities[i].Name == name {
			return &c.Activities[i], true
		}
	}
	return nil, false
}

// Records converts the catalog into registry seed records.
func (c *Catalog) Records() []registry.Activity {
	out := make([]registry.Activity, 0, len(c.Activities))
	for _, a := range c.Activities {
		participants := make([]string, len(a.Participants))
		copy(participants, a.Participants)
		out = append(out, registry.Activity{
			Name:            a.Name,
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    participants,
		})
	}
	return out
}

// Save validates c and writes it to path as indented JSON, stamping
// LastUpdated.
func Save(path string, c *Catalog) error {
	c.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if c.Activities == nil {
		c.Activities = []Activity{}
	}
	for i := range c.Activities {
		if c.Activities[i].Participants == nil {
			c.Activities[i].Participants = []string{}
		}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if _, err := Parse(data); err != nil {
		return fmt.Errorf("refusing to save invalid catalog: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
