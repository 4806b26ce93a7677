// Package prompts provides the model prompts used by the pipeline.
// Prompts live in an embedded YAML file and are parsed once on first use.
package prompts

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptFile []byte

// Request names
const (
	Analysis         = "analysis"
	Metrics          = "metrics"
	SplitSections    = "split_sections"
	CompanyIdentity  = "company_identity"
	CompanyInfo      = "company_info"
	MarketInfo       = "market_info"
	FinancialMetrics = "financial_metrics"
	Highlights       = "highlights"
)

// Prompt is one structuring or generation request
type Prompt struct {
	System    string `yaml:"system"`
	Template  string `yaml:"template"`
	MaxTokens int    `yaml:"max_tokens"`
	Schema    string `yaml:"schema"`
}

// SectionTemplate holds the summarization instructions for one section.
// Each canonical section has its own emphasis points.
type SectionTemplate struct {
	Intro   string   `yaml:"intro"`
	Lead    string   `yaml:"lead"`
	Focus   []string `yaml:"focus"`
	Closing string   `yaml:"closing"`
}

// Render builds the user prompt for summarizing text
func (t SectionTemplate) Render(text string) string {
	var b strings.Builder
	b.WriteString(t.Intro)
	if len(t.Focus) > 0 {
		b.WriteString("\n")
		if t.Lead != "" {
			b.WriteString(t.Lead)
			b.WriteString("\n")
		}
		for i, f := range t.Focus {
			fmt.Fprintf(&b, "%d. %s\n", i+1, f)
		}
	}
	if t.Closing != "" {
		b.WriteString("\n")
		b.WriteString(t.Closing)
		b.WriteString("\n\nContent to analyze:")
	}
	b.WriteString("\n\n")
	b.WriteString(text)
	return b.String()
}

type file struct {
	Summary struct {
		System    string `yaml:"system"`
		MaxTokens int    `yaml:"max_tokens"`
	} `yaml:"summary"`
	Sections       map[string]SectionTemplate `yaml:"sections"`
	GenericSection SectionTemplate            `yaml:"generic_section"`
	Requests       map[string]Prompt          `yaml:"requests"`
}

var (
	loaded  *file
	loadErr error
	once    sync.Once
)

func load() (*file, error) {
	once.Do(func() {
		var f file
		if err := yaml.Unmarshal(promptFile, &f); err != nil {
			loadErr = fmt.Errorf("failed to parse prompts.yaml: %w", err)
			return
		}
		loaded = &f
	})
	return loaded, loadErr
}

// Get returns the named request prompt
func Get(name string) (Prompt, error) {
	f, err := load()
	if err != nil {
		return Prompt{}, err
	}
	p, ok := f.Requests[name]
	if !ok {
		return Prompt{}, fmt.Errorf("prompt %q not found", name)
	}
	return p, nil
}

// MustGet returns the named request prompt, panicking if it is missing.
// Prompts are compiled in, so a miss is a programming error.
func MustGet(name string) Prompt {
	p, err := Get(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return p
}

// SummarySystem returns the system prompt and token cap for section summaries
func SummarySystem() (string, int) {
	f, err := load()
	if err != nil {
		panic(fmt.Sprintf("failed to load prompts: %v", err))
	}
	return f.Summary.System, f.Summary.MaxTokens
}

// SectionTemplates returns a copy of the section lookup table
func SectionTemplates() map[string]SectionTemplate {
	f, err := load()
	if err != nil {
		panic(fmt.Sprintf("failed to load prompts: %v", err))
	}
	out := make(map[string]SectionTemplate, len(f.Sections))
	for k, v := range f.Sections {
		out[k] = v
	}
	return out
}

// SectionTemplateFor returns the template for a section, or the generic one
// for names outside the table.
func SectionTemplateFor(name string) SectionTemplate {
	f, err := load()
	if err != nil {
		panic(fmt.Sprintf("failed to load prompts: %v", err))
	}
	if t, ok := f.Sections[name]; ok {
		return t
	}
	return f.GenericSection
}

// Format replaces {{.Key}} placeholders in template with values from data.
// Substitution is a single pass: placeholders inside values stay literal.
func Format(template string, data map[string]string) string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, "{{."+key+"}}", data[key])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Build formats the named prompt's template with data
func (p Prompt) Build(data map[string]string) string {
	return Format(p.Template, data)
}
