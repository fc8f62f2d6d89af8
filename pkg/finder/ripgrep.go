package finder

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
)

// SearchError wraps a failure of the external full-text search tool with the
// command that was run.
type SearchError struct {
	Command string
	Err     error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search command %q failed: %v", e.Command, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// RipgrepSearcher finds candidate definition lines by shelling out to rg.
// -u whitelists virtualenv directories so library code is searched too.
type RipgrepSearcher struct {
	// Binary overrides the rg executable name, mainly for tests.
	Binary string
	// MaxFileSize is passed through to rg; defaults to 10M.
	MaxFileSize string
}

// rgMatch is the subset of ripgrep's --json "match" event we consume.
type rgMatch struct {
	Type string `json:"type"`
	Data struct {
		Path struct {
			Text string `json:"text"`
		} `json:"path"`
		LineNumber int `json:"line_number"`
	} `json:"data"`
}

// Search runs rg over rootDir for lines that look like a definition of name.
// The pattern is approximate by design; the finder disambiguates hits
// structurally afterwards.
func (s *RipgrepSearcher) Search(name, rootDir string) ([]Hit, error) {
	binary := s.Binary
	if binary == "" {
		binary = "rg"
	}
	maxSize := s.MaxFileSize
	if maxSize == "" {
		maxSize = "10M"
	}

	pattern := fmt.Sprintf(`[ \t]*def %s\(`, name)
	cmd := exec.Command(binary,
		"-u", "--no-messages", "--type", "py",
		pattern,
		"--max-filesize", maxSize,
		"--json",
		rootDir,
	)

	out, err := cmd.Output()
	if err != nil {
		// Exit code 1 means no matches, which is a valid empty result.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, &SearchError{Command: cmd.String(), Err: err}
	}

	var hits []Hit
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var m rgMatch
		if err := json.Unmarshal(line, &m); err != nil {
			return nil, &SearchError{Command: cmd.String(), Err: fmt.Errorf("decode output line: %w", err)}
		}
		if m.Type != "match" {
			continue
		}
		hits = append(hits, Hit{Path: m.Data.Path.Text, Line: m.Data.LineNumber})
	}
	if err := scanner.Err(); err != nil {
		return nil, &SearchError{Command: cmd.String(), Err: err}
	}

	return hits, nil
}
