package settings

import (
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/kleros/linguo-engine/pkg/taskFilter"
)

// CurrentSchemaVersion is the version Load migrates every persisted settings
// document up to.
const CurrentSchemaVersion = 2

// Settings is the persisted per-user display configuration. It is loaded
// once, migrated in place to the current schema version, and passed around
// explicitly; there is no ambient global.
type Settings struct {
	SchemaVersion int `json:"schemaVersion"`

	// Filter is the list view restored on startup.
	Filter struct {
		Status   string `json:"status"`
		AllTasks bool   `json:"allTasks"`
	} `json:"filter"`

	// PreferredLanguages orders language pairs in pickers.
	PreferredLanguages []string `json:"preferredLanguages,omitempty"`
}

// Default returns the settings used when nothing was persisted yet.
func Default() *Settings {
	s := &Settings{SchemaVersion: CurrentSchemaVersion}
	f := taskFilter.DefaultFilter()
	s.Filter.Status = string(f.Status)
	s.Filter.AllTasks = f.AllTasks
	return s
}

// migration upgrades a raw document from version n to n+1. Migrations
// operate on the generic map form so old shapes that no longer unmarshal
// into Settings still migrate.
type migration func(doc map[string]interface{}) error

// migrations[n] migrates version n to n+1.
var migrations = map[int]migration{
	0: migrateV0ToV1,
	1: migrateV1ToV2,
}

// migrateV0ToV1: version 0 stored the filter as a bare top-level
// "statusFilter" string.
func migrateV0ToV1(doc map[string]interface{}) error {
	status, _ := doc["statusFilter"].(string)
	delete(doc, "statusFilter")
	doc["filter"] = map[string]interface{}{
		"status":   status,
		"allTasks": false,
	}
	return nil
}

// migrateV1ToV2: version 1 allowed filter.status values the engine no
// longer recognizes; they collapse to the fallback view.
func migrateV1ToV2(doc map[string]interface{}) error {
	filter, ok := doc["filter"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("filter section missing")
	}
	status, _ := filter["status"].(string)
	filter["status"] = string(taskFilter.ParseFilterName(status))
	return nil
}

// Load parses a persisted settings document (YAML or JSON), migrates it to
// the current schema version, and validates the result. Empty input yields
// the defaults.
func Load(data []byte) (*Settings, error) {
	if len(data) == 0 {
		return Default(), nil
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if doc == nil {
		return Default(), nil
	}

	version := 0
	if v, ok := doc["schemaVersion"].(float64); ok {
		version = int(v)
	}
	if version > CurrentSchemaVersion {
		return nil, fmt.Errorf("settings schema version %d is newer than supported version %d", version, CurrentSchemaVersion)
	}

	for version < CurrentSchemaVersion {
		migrate, ok := migrations[version]
		if !ok {
			return nil, fmt.Errorf("no migration from settings schema version %d", version)
		}
		if err := migrate(doc); err != nil {
			return nil, fmt.Errorf("failed to migrate settings from version %d: %w", version, err)
		}
		version++
		doc["schemaVersion"] = float64(version)
	}

	raw, err := yaml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode migrated settings: %w", err)
	}
	s.SchemaVersion = CurrentSchemaVersion
	s.Filter.Status = string(taskFilter.ParseFilterName(s.Filter.Status))
	return &s, nil
}

// Save renders the settings back to YAML.
func (s *Settings) Save() ([]byte, error) {
	return yaml.Marshal(s)
}

// TaskFilter converts the persisted filter section into the engine's filter
// value.
func (s *Settings) TaskFilter() taskFilter.Filter {
	f := taskFilter.Filter{
		Status:   taskFilter.ParseFilterName(s.Filter.Status),
		AllTasks: s.Filter.AllTasks,
	}
	if f.Status == taskFilter.FilterOpen {
		f.AllTasks = true
	}
	return f
}
