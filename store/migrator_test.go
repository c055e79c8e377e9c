package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSQL(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "single statement",
			script: "CREATE TABLE a (id INT);",
			want:   []string{"CREATE TABLE a (id INT)"},
		},
		{
			name:   "comments and blank lines",
			script: "-- a table\nCREATE TABLE a (id INT);\n\n-- another\nCREATE INDEX idx_a ON a (id);\n",
			want:   []string{"CREATE TABLE a (id INT)", "CREATE INDEX idx_a ON a (id)"},
		},
		{
			name:   "semicolon in a string",
			script: "INSERT INTO a VALUES ('x;y');\nSELECT 1",
			want:   []string{"INSERT INTO a VALUES ('x;y')", "SELECT 1"},
		},
		{
			name:   "multi-line statement",
			script: "CREATE TABLE a (\n  id INT,\n  t TEXT DEFAULT ''\n);",
			want:   []string{"CREATE TABLE a (\n  id INT,\n  t TEXT DEFAULT ''\n)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSQL(tt.script))
		})
	}
}

func TestLatestSchemaIsEmbedded(t *testing.T) {
	for _, driver := range []string{"sqlite", "postgres"} {
		data, err := migrationFS.ReadFile("migration/" + driver + "/" + LatestSchemaFileName)
		if assert.NoError(t, err, driver) {
			assert.Len(t, splitSQL(string(data)), 4, driver)
		}
	}
}
