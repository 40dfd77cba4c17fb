package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleros/linguo-engine/pkg/taskFilter"
)

func TestLoad_EmptyYieldsDefaults(t *testing.T) {
	s, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, s.SchemaVersion)
	assert.Equal(t, "open", s.Filter.Status)
	assert.True(t, s.Filter.AllTasks)
}

func TestLoad_CurrentVersionRoundTrips(t *testing.T) {
	original := Default()
	original.Filter.Status = "inReview"
	original.Filter.AllTasks = false
	original.PreferredLanguages = []string{"en|fr", "en|de"}

	data, err := original.Save()
	require.NoError(t, err)

	loaded, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestLoad_MigratesV0(t *testing.T) {
	// Version 0 kept the filter as a bare top-level string.
	doc := []byte(`statusFilter: inDispute`)

	s, err := Load(doc)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, s.SchemaVersion)
	assert.Equal(t, "inDispute", s.Filter.Status)
	assert.False(t, s.Filter.AllTasks)
}

func TestLoad_MigratesV1UnknownStatus(t *testing.T) {
	doc := []byte(`
schemaVersion: 1
filter:
  status: translated
  allTasks: true
`)
	s, err := Load(doc)
	require.NoError(t, err)
	assert.Equal(t, "all", s.Filter.Status)
	assert.True(t, s.Filter.AllTasks)
}

func TestLoad_RejectsNewerSchema(t *testing.T) {
	doc := []byte(`schemaVersion: 99`)
	_, err := Load(doc)
	assert.Error(t, err)
}

func TestLoad_RejectsGarbage(t *testing.T) {
	_, err := Load([]byte("{:::"))
	assert.Error(t, err)
}

func TestTaskFilter_OpenForcesAllTasks(t *testing.T) {
	s := Default()
	s.Filter.Status = "open"
	s.Filter.AllTasks = false

	f := s.TaskFilter()
	assert.Equal(t, taskFilter.FilterOpen, f.Status)
	assert.True(t, f.AllTasks)
}

func TestTaskFilter_UnknownStatusFallsBack(t *testing.T) {
	s := Default()
	s.Filter.Status = "banana"

	f := s.TaskFilter()
	assert.Equal(t, taskFilter.FilterAll, f.Status)
}
