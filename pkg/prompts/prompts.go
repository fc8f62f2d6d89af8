// Package prompts loads .prompt files: YAML frontmatter (model, temperature)
// followed by a text/template body, separated by --- lines.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed files/*.prompt
var embedded embed.FS

// PromptConfig holds metadata from the YAML frontmatter.
type PromptConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// Prompt represents a loaded prompt with config and template.
type Prompt struct {
	Config   PromptConfig
	Template *template.Template
}

// Load reads a .prompt file from fsys, parsing frontmatter and body.
func Load(fsys fs.FS, path string) (*Prompt, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}
	return parse(data)
}

// LoadEmbedded reads one of the prompts compiled into the binary, by base
// name (e.g. "completion").
func LoadEmbedded(name string) (*Prompt, error) {
	return Load(embedded, "files/"+name+".prompt")
}

func parse(data []byte) (*Prompt, error) {
	parts := strings.SplitN(string(data), "---", 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid prompt format: missing frontmatter delimiters")
	}

	frontmatter := parts[1]
	body := parts[2]

	var config PromptConfig
	if err := yaml.Unmarshal([]byte(frontmatter), &config); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	tmpl, err := template.New("prompt").Parse(strings.TrimSpace(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template body: %w", err)
	}

	return &Prompt{
		Config:   config,
		Template: tmpl,
	}, nil
}

// Execute applies data to the template and returns the result string.
func (p *Prompt) Execute(data any) (string, error) {
	var buf bytes.Buffer
	if err := p.Template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
