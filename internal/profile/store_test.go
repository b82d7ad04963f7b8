package profile

import (
	"os"
	"strings"
	"testing"
)

// schemaColumns parses one CREATE TABLE block out of schema.sql and returns
// column name → type.
func schemaColumns(t *testing.T, table string) map[string]string {
	t.Helper()
	data, err := os.ReadFile("../../schema.sql")
	if err != nil {
		t.Fatalf("read schema.sql: %v", err)
	}

	marker := "CREATE TABLE IF NOT EXISTS " + table + " ("
	_, rest, ok := strings.Cut(string(data), marker)
	if !ok {
		t.Fatalf("schema.sql has no table %q", table)
	}
	body, _, ok := strings.Cut(rest, ");")
	if !ok {
		t.Fatalf("unterminated table %q", table)
	}

	cols := map[string]string{}
	for _, line := range strings.Split(body, "\n") {
		fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(line), ","))
		if len(fields) < 2 {
			continue
		}
		cols[fields[0]] = strings.ToUpper(fields[1])
	}
	return cols
}

func splitColumnList(list string) []string {
	var out []string
	for _, c := range strings.Split(list, ",") {
		out = append(out, strings.TrimSpace(c))
	}
	return out
}

func TestSchemaCoversQueriedColumns(t *testing.T) {
	cases := []struct {
		table   string
		columns string
	}{
		{"mentors", mentorColumns},
		{"mentees", menteeColumns},
	}
	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			cols := schemaColumns(t, tc.table)
			for _, name := range splitColumnList(tc.columns) {
				if _, ok := cols[name]; !ok {
					t.Errorf("table %s is missing column %q", tc.table, name)
				}
			}
		})
	}
}

// The slice- and map-valued profile fields are scanned through pgx's JSON
// codec, which needs a jsonb column; a text column fails at Scan.
func TestDocumentColumnsAreJSONB(t *testing.T) {
	cases := []struct {
		table   string
		columns []string
	}{
		{"mentors", []string{"industry", "skills", "help_in", "company_sizes", "availability"}},
		{"mentees", []string{"industry", "skills_to_learn", "service_looking_for", "company_sizes", "availability"}},
	}
	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			cols := schemaColumns(t, tc.table)
			for _, name := range tc.columns {
				if typ := cols[name]; typ != "JSONB" {
					t.Errorf("%s.%s has type %s, want JSONB", tc.table, name, typ)
				}
			}
		})
	}
}
