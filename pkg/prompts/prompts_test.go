package prompts

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesFrontmatter(t *testing.T) {
	fsys := fstest.MapFS{
		"test.prompt": &fstest.MapFile{Data: []byte(`---
model: gemini-2.5-pro
temperature: 0.7
---
Hello {{.Name}}!`)},
	}

	p, err := Load(fsys, "test.prompt")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", p.Config.Model)
	assert.InDelta(t, 0.7, p.Config.Temperature, 0.001)

	out, err := p.Execute(map[string]string{"Name": "world"})
	require.NoError(t, err)
	assert.Equal(t, "Hello world!", out)
}

func TestLoadRejectsMissingFrontmatter(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.prompt": &fstest.MapFile{Data: []byte("no delimiters here")},
	}

	_, err := Load(fsys, "bad.prompt")
	assert.Error(t, err)
}

func TestLoadEmbeddedCompletion(t *testing.T) {
	p, err := LoadEmbedded("completion")
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-pro", p.Config.Model)
	assert.Zero(t, p.Config.Temperature)

	out, err := p.Execute(nil)
	require.NoError(t, err)
	assert.Contains(t, out, "/*@@*/")
}

func TestBodyKeepsInternalSeparators(t *testing.T) {
	fsys := fstest.MapFS{
		"sep.prompt": &fstest.MapFile{Data: []byte("---\nmodel: m\n---\nfirst\n---\nsecond")},
	}

	p, err := Load(fsys, "sep.prompt")
	require.NoError(t, err)

	out, err := p.Execute(nil)
	require.NoError(t, err)
	assert.Contains(t, out, "first\n---\nsecond")
}
