package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielEbert/lineCompletion/pkg/calls"
	apperrors "github.com/DanielEbert/lineCompletion/pkg/common/errors"
	"github.com/DanielEbert/lineCompletion/pkg/syntax"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type suggestRequest struct {
	Context string `json:"context" binding:"required"`
}

type suggestResponse struct {
	Response []string `json:"response"`
}

func (s *Server) handleSuggest(c *gin.Context) {
	if s.suggest == nil {
		handleError(c, apperrors.NewAppError(http.StatusServiceUnavailable, "Suggestion service not configured", nil))
		return
	}

	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	completions, err := s.suggest.Suggest(c.Request.Context(), req.Context)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestResponse{Response: completions})
}

// resolveItem is one symbol location query. End coordinates are exclusive.
type resolveItem struct {
	Name          string `json:"name"`
	Path          string `json:"path" binding:"required"`
	StartLine     int    `json:"startLine"`
	StartCol      int    `json:"startCol"`
	EndLine       int    `json:"endLine"`
	EndCol        int    `json:"endCol"`
	ExpandToClass bool   `json:"expand_to_class"`
}

type resolvedSymbol struct {
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	Text      string `json:"text"`
}

// handleResolveSymbols resolves a batch of locations to their enclosing
// definitions. Entries that do not resolve are omitted from the response.
func (s *Server) handleResolveSymbols(c *gin.Context) {
	var items []resolveItem
	if err := c.ShouldBindJSON(&items); err != nil {
		handleError(c, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	results := make([]resolvedSymbol, 0, len(items))
	for _, item := range items {
		res, err := s.resolver.Resolve(
			item.Path,
			syntax.Point{Row: item.StartLine, Column: item.StartCol},
			syntax.Point{Row: item.EndLine, Column: item.EndCol},
			item.Name,
			item.ExpandToClass,
		)
		if err != nil {
			// A malformed definition node aborts only this item.
			if errors.Is(err, apperrors.ErrMalformedNode) {
				slog.Error("malformed definition node",
					"request_id", c.GetString("request_id"),
					"path", item.Path,
					"error", err,
				)
				continue
			}
			handleError(c, err)
			return
		}
		if res == nil {
			continue
		}
		results = append(results, resolvedSymbol{
			StartLine: res.Start.Row,
			StartCol:  res.Start.Column,
			Text:      res.Text,
		})
	}

	c.JSON(http.StatusOK, results)
}

// callsRequest selects the inclusive line range of path to scan for calls.
type callsRequest struct {
	Path      string `json:"path" binding:"required"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

func (s *Server) handleListCalls(c *gin.Context) {
	var req callsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}
	if req.StartLine < 0 || req.EndLine < req.StartLine {
		handleError(c, fmt.Errorf("%w: require 0 <= start_line <= end_line", apperrors.ErrInvalidInput))
		return
	}

	entry, err := s.cache.Get(req.Path)
	if err != nil {
		handleError(c, err)
		return
	}
	defer entry.Release()

	sites := calls.ExtractInRange(entry.Root(), entry.Src, req.StartLine, req.EndLine)
	if sites == nil {
		sites = []calls.CallSite{}
	}
	c.JSON(http.StatusOK, sites)
}
