package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultVocabulary lists common Spanish filler expressions.
var DefaultVocabulary = []string{
	"eh",
	"em",
	"mmm",
	"este",
	"bueno",
	"pues",
	"entonces",
	"o sea",
	"vale",
	"digamos",
	"en plan",
	"tipo",
	"a ver",
	"como que",
	"la verdad",
	"básicamente",
	"literalmente",
	"sabes",
	"¿no?",
}

type vocabularyFile struct {
	Vocabulary []string `yaml:"vocabulary" toml:"vocabulary"`
}

// LoadVocabulary reads a vocabulary from a YAML or TOML file. YAML files may
// hold either a plain list or a "vocabulary" key.
func LoadVocabulary(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var terms []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var f vocabularyFile
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
		}
		terms = f.Vocabulary
	case ".yaml", ".yml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			if err := node.Content[0].Decode(&terms); err != nil {
				return nil, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
			}
		} else {
			var f vocabularyFile
			if err := node.Decode(&f); err != nil {
				return nil, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
			}
			terms = f.Vocabulary
		}
	default:
		return nil, fmt.Errorf("unsupported vocabulary file extension: %s", filepath.Ext(path))
	}

	terms = cleanVocabulary(terms)
	if len(terms) == 0 {
		return nil, fmt.Errorf("vocabulary file %s contains no terms", path)
	}

	return terms, nil
}

func cleanVocabulary(terms []string) []string {
	cleaned := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}
