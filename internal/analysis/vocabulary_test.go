package analysis

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadVocabulary(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    []string
	}{
		{"yaml list", "v.yaml", "- eh\n- o sea\n- ''\n", []string{"eh", "o sea"}},
		{"yaml key", "v.yml", "vocabulary:\n  - pues\n  - bueno\n", []string{"pues", "bueno"}},
		{"toml", "v.toml", "vocabulary = [\"este\", \" tipo \"]\n", []string{"este", "tipo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadVocabulary(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadVocabulary: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadVocabularyErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unsupported extension", "v.txt", "eh"},
		{"empty list", "v.yaml", "vocabulary: []\n"},
		{"broken toml", "v.toml", "vocabulary = [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadVocabulary(writeFile(t, tt.file, tt.content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
