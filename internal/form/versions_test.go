package form

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/getmentor/engineer-form/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVersionTable(t *testing.T) {
	table := DefaultVersionTable()

	want := []models.FrameworkVersions{
		{Key: "angular", Versions: []string{"1.1.1", "1.2.1", "1.3.3"}},
		{Key: "react", Versions: []string{"2.1.2", "3.2.4", "4.3.1"}},
		{Key: "vue", Versions: []string{"3.3.1", "5.2.1", "5.1.3"}},
	}
	if diff := cmp.Diff(want, table.Rows()); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, table.Allows("react", "3.2.4"))
	assert.False(t, table.Allows("react", "1.1.1"))
	assert.False(t, table.Allows("", "1.1.1"))
	assert.Empty(t, table.Versions(""))
	assert.NotNil(t, table.Versions("svelte"))
}

func TestVersionTable_VersionsReturnsCopy(t *testing.T) {
	table := DefaultVersionTable()
	versions := table.Versions("vue")
	versions[0] = "9.9.9"
	assert.Equal(t, "3.3.1", table.Versions("vue")[0])
}

func TestParseVersionTable(t *testing.T) {
	table, err := ParseVersionTable([]byte(`
frameworks:
  - key: svelte
    versions: ["4.0.0", "5.0.0"]
  - key: solid
    versions: ["1.8.0"]
`))
	require.NoError(t, err)
	assert.True(t, table.Has("svelte"))
	assert.False(t, table.Has("angular"))
	assert.Equal(t, []string{"4.0.0", "5.0.0"}, table.Versions("svelte"))
}

func TestParseVersionTable_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"empty", "frameworks: []", "no frameworks"},
		{"duplicate", "frameworks:\n  - {key: vue, versions: [\"1\"]}\n  - {key: vue, versions: [\"2\"]}", "duplicate"},
		{"no versions", "frameworks:\n  - {key: vue}", "no versions"},
		{"blank key", "frameworks:\n  - {key: \" \", versions: [\"1\"]}", "empty key"},
		{"broken yaml", "frameworks: [", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVersionTable([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadVersionTable(t *testing.T) {
	table, err := LoadVersionTable("")
	require.NoError(t, err)
	assert.True(t, table.Has("angular"))

	path := filepath.Join(t.TempDir(), "frameworks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frameworks:\n  - key: ember\n    versions: [\"5.4.0\"]\n"), 0o600))
	table, err = LoadVersionTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"5.4.0"}, table.Versions("ember"))

	_, err = LoadVersionTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
