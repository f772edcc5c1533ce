package framework

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	MaxContextLength  = 8000
	contextGlossary   = 20
	truncationSuffix  = "... [Context Truncated]"
	endOfFrameworkTag = "[End of Provided Framework Information]"
)

//go:embed content.yaml
var contentYAML []byte

type Vision struct {
	Title            string `yaml:"title"`
	MissionStatement string `yaml:"missionStatement"`
}

type Category struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
}

type Principle struct {
	Title       string `yaml:"title"`
	Explanation string `yaml:"explanation"`
}

type Agent struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

type GlossaryEntry struct {
	Term       string `yaml:"term"`
	Definition string `yaml:"definition"`
}

type Content struct {
	Vision     Vision          `yaml:"vision"`
	Categories []Category      `yaml:"categories"`
	Principles []Principle     `yaml:"principles"`
	Agents     []Agent         `yaml:"agents"`
	Glossary   []GlossaryEntry `yaml:"glossary"`
}

// Load decodes the embedded content tables.
func Load() (*Content, error) {
	return Parse(contentYAML)
}

func Parse(b []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrap(err, "decode framework content")
	}
	if c.Vision.MissionStatement == "" || len(c.Categories) == 0 {
		return nil, errors.New("framework content is incomplete")
	}
	return &c, nil
}

// SystemContext renders the one-time system prompt the chat widget sends
// with its first message.
func (c *Content) SystemContext() string {
	var b strings.Builder
	b.WriteString(`You are a helpful assistant embedded in a web application explaining the "Unified AI Framework".
This framework is a blueprint for an advanced, integrated AI ecosystem. Your goal is to answer user questions about this specific framework based *only* on the information provided below and your general knowledge for clarification. Be concise and helpful. If the information isn't provided, state that the framework details don't cover that specific point. Keep answers focused on the framework described.

Framework Vision:
`)
	b.WriteString(c.Vision.MissionStatement)

	b.WriteString("\n\nCore Capabilities (Summaries):\n")
	lines := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		lines = append(lines, fmt.Sprintf("- %s: %s", cat.Title, cat.Summary))
	}
	b.WriteString(strings.Join(lines, "\n"))

	b.WriteString("\n\nEnabling Principles (Summaries):\n")
	lines = lines[:0]
	for _, p := range c.Principles {
		lines = append(lines, fmt.Sprintf("- %s: %s", p.Title, p.Explanation))
	}
	b.WriteString(strings.Join(lines, "\n"))

	b.WriteString("\n\nAgent Examples (Roles):\n")
	lines = lines[:0]
	for _, a := range c.Agents {
		lines = append(lines, fmt.Sprintf("- %s: %s", a.Name, a.Role))
	}
	b.WriteString(strings.Join(lines, "\n"))

	b.WriteString("\n\nKey Glossary Terms:\n")
	lines = lines[:0]
	for i, g := range c.Glossary {
		if i == contextGlossary {
			break
		}
		lines = append(lines, fmt.Sprintf("- %s: %s.", g.Term, firstSentence(g.Definition)))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n" + endOfFrameworkTag)

	return truncate(b.String(), MaxContextLength)
}

// firstSentence returns text up to the first period, without the period.
func firstSentence(s string) string {
	return strings.SplitN(s, ".", 2)[0]
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// back off to a rune boundary
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + truncationSuffix
}
