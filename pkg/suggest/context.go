package suggest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/DanielEbert/lineCompletion/pkg/calls"
	"github.com/DanielEbert/lineCompletion/pkg/finder"
)

// ContextBuilder drags the definitions of functions called in the submitted
// snippet into the prompt, so the model completes against real signatures
// instead of guessing them.
type ContextBuilder struct {
	finder  *finder.Finder
	rootDir string

	// MaxDefinitions caps how many definitions are appended.
	MaxDefinitions int
}

// NewContextBuilder creates a builder that looks up called functions under
// rootDir.
func NewContextBuilder(f *finder.Finder, rootDir string) *ContextBuilder {
	return &ContextBuilder{
		finder:         f,
		rootDir:        rootDir,
		MaxDefinitions: 3,
	}
}

// Enrich appends the closest-named definition for each function called in the
// snippet. Lookup failures degrade to the plain context; suggestions must
// not fail because enrichment did.
func (cb *ContextBuilder) Enrich(codeContext string) string {
	sites, err := calls.Extract([]byte(codeContext))
	if err != nil {
		slog.Warn("call extraction failed, using plain context", "error", err)
		return codeContext
	}
	if len(sites) == 0 {
		return codeContext
	}

	var sb strings.Builder
	added := 0
	seen := make(map[string]struct{})

	for _, site := range sites {
		if added >= cb.MaxDefinitions {
			break
		}
		if _, ok := seen[site.Name]; ok {
			continue
		}
		seen[site.Name] = struct{}{}

		refs, err := cb.finder.Find(site.Name, cb.rootDir)
		if err != nil {
			slog.Warn("definition lookup failed", "name", site.Name, "error", err)
			continue
		}
		if len(refs) == 0 {
			continue
		}

		best := finder.RankByName(site.Name, refs)[0]
		sb.WriteString(fmt.Sprintf("\n# Definition of %s (%s):\n%s\n", site.Name, best.Filepath, best.Text))
		added++
	}

	if sb.Len() == 0 {
		return codeContext
	}
	return codeContext + "\n" + sb.String()
}
