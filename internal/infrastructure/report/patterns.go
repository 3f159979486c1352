package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DefaultPatternCategory is the negatives_scan.patterns key suggested tokens go under
const DefaultPatternCategory = "UNRELATED_CONTEXT"

type patternSnippet struct {
	NegativesScan struct {
		Patterns map[string][]string `yaml:"patterns"`
	} `yaml:"negatives_scan"`
}

// WritePatternsYAML writes a config.yaml fragment that adds tokens to one
// negative pattern category, ready to paste under analysis:
func WritePatternsYAML(w io.Writer, category string, tokens []string) error {
	if category == "" {
		category = DefaultPatternCategory
	}
	if tokens == nil {
		tokens = []string{}
	}

	var snippet patternSnippet
	snippet.NegativesScan.Patterns = map[string][]string{category: tokens}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&snippet); err != nil {
		return fmt.Errorf("encode patterns yaml: %w", err)
	}
	return enc.Close()
}
