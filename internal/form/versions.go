package form

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getmentor/engineer-form/internal/models"
)

// VersionTable maps a framework key to its ordered list of versions
type VersionTable struct {
	order    []string
	versions map[string][]string
}

type versionTableFile struct {
	Frameworks []struct {
		Key      string   `yaml:"key"`
		Versions []string `yaml:"versions"`
	} `yaml:"frameworks"`
}

// DefaultVersionTable returns the built-in table
func DefaultVersionTable() *VersionTable {
	t, _ := newVersionTable([]models.FrameworkVersions{
		{Key: "angular", Versions: []string{"1.1.1", "1.2.1", "1.3.3"}},
		{Key: "react", Versions: []string{"2.1.2", "3.2.4", "4.3.1"}},
		{Key: "vue", Versions: []string{"3.3.1", "5.2.1", "5.1.3"}},
	})
	return t
}

// LoadVersionTable reads a YAML table from path. An empty path yields the
// built-in table.
func LoadVersionTable(path string) (*VersionTable, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultVersionTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("versions: read %s: %w", path, err)
	}
	return ParseVersionTable(data)
}

// ParseVersionTable parses the YAML form:
//
//	frameworks:
//	  - key: angular
//	    versions: ["1.1.1", "1.2.1"]
func ParseVersionTable(data []byte) (*VersionTable, error) {
	var doc versionTableFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("versions: parse: %w", err)
	}
	rows := make([]models.FrameworkVersions, 0, len(doc.Frameworks))
	for _, fw := range doc.Frameworks {
		rows = append(rows, models.FrameworkVersions{Key: fw.Key, Versions: fw.Versions})
	}
	return newVersionTable(rows)
}

func newVersionTable(rows []models.FrameworkVersions) (*VersionTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("versions: table has no frameworks")
	}
	t := &VersionTable{versions: make(map[string][]string, len(rows))}
	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			return nil, fmt.Errorf("versions: framework with empty key")
		}
		if _, dup := t.versions[key]; dup {
			return nil, fmt.Errorf("versions: duplicate framework %q", key)
		}
		if len(row.Versions) == 0 {
			return nil, fmt.Errorf("versions: framework %q has no versions", key)
		}
		t.order = append(t.order, key)
		t.versions[key] = append([]string(nil), row.Versions...)
	}
	return t, nil
}

// Has reports whether framework is a known key
func (t *VersionTable) Has(framework string) bool {
	_, ok := t.versions[framework]
	return ok
}

// Versions returns a copy of the versions for framework, or an empty slice
func (t *VersionTable) Versions(framework string) []string {
	return append([]string{}, t.versions[framework]...)
}

// Allows reports whether version belongs to framework
func (t *VersionTable) Allows(framework, version string) bool {
	for _, v := range t.versions[framework] {
		if v == version {
			return true
		}
	}
	return false
}

// Rows lists the table in declaration order
func (t *VersionTable) Rows() []models.FrameworkVersions {
	rows := make([]models.FrameworkVersions, 0, len(t.order))
	for _, key := range t.order {
		rows = append(rows, models.FrameworkVersions{Key: key, Versions: t.Versions(key)})
	}
	return rows
}
