package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/docmentor/docmentor-mcp/internal/retriever"
	"github.com/docmentor/docmentor-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams  = -32602 // Invalid method parameters
	ErrorCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrorCodeCatalogMissing = -32001 // No knowledge base snapshot is loaded
	ErrorCodeEmptyQuery     = -32002 // Query parameter is empty
)

const maxTopK = 50

// handleGetOverview handles the get_overview tool invocation
func (s *Server) handleGetOverview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, newMCPError(ErrorCodeCatalogMissing, "no knowledge base loaded", nil)
	}

	apis, examples := snap.KB.CountsByLanguage()
	response := map[string]interface{}{
		"library": snap.KB.Overview,
		"statistics": map[string]interface{}{
			"total_apis":           snap.KB.Metadata.TotalAPIs,
			"total_examples":       snap.KB.Metadata.TotalExamples,
			"apis_by_language":     apis,
			"examples_by_language": examples,
		},
		"built_at":      snap.KB.Metadata.BuiltAt,
		"vector_search": snap.Vector.Available(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleFindAPI handles the find_api tool invocation
func (s *Server) handleFindAPI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	topK := getIntDefault(args, "top_k", retriever.DefaultTopK)
	if topK < 1 || topK > maxTopK {
		return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("top_k must be between 1 and %d", maxTopK), map[string]interface{}{
			"param": "top_k",
			"value": topK,
		})
	}

	minImportance := getFloatDefault(args, "min_importance", 0.0)
	if minImportance < 0 || minImportance > 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "min_importance must be between 0.0 and 1.0", map[string]interface{}{
			"param": "min_importance",
			"value": minImportance,
		})
	}

	language := getStringDefault(args, "language", "")

	resp, err := s.retriever.Search(ctx, retriever.Options{
		Query:         query,
		Language:      language,
		Kind:          types.ResultAPI,
		TopK:          topK,
		MinImportance: minImportance,
	})
	if err != nil {
		return nil, s.searchError(err)
	}

	// Hydrate from the snapshot the search ran against, not the store's
	// current one; a publish between the two would mix snapshots.
	snap := resp.Snapshot
	formatted := make([]map[string]interface{}, 0, len(resp.Results))
	for _, r := range resp.Results {
		api, ok := snap.KB.API(r.Language, r.ID)
		if !ok {
			continue
		}
		formatted = append(formatted, map[string]interface{}{
			"api_id":           api.APIID,
			"language":         api.Language,
			"signature":        api.Signature,
			"description":      api.Description,
			"parameters":       api.Parameters,
			"returns":          api.Returns,
			"examples":         api.ExampleIDs,
			"tags":             api.Tags,
			"related_apis":     api.RelatedAPIs,
			"importance_score": api.ImportanceScore,
			"relevance_score":  r.Score,
			"keyword_rank":     r.KeywordRank,
			"vector_rank":      r.VectorRank,
		})
	}

	response := map[string]interface{}{
		"query": query,
		"mode":  resp.Mode,
		"filters": map[string]interface{}{
			"language":       language,
			"min_importance": minImportance,
		},
		"total_results": len(formatted),
		"results":       formatted,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetExamples handles the get_examples tool invocation
func (s *Server) handleGetExamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	topK := getIntDefault(args, "top_k", retriever.DefaultTopK)
	if topK < 1 || topK > maxTopK {
		return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("top_k must be between 1 and %d", maxTopK), map[string]interface{}{
			"param": "top_k",
			"value": topK,
		})
	}

	complexity := getStringDefault(args, "complexity", "")
	if complexity != "" && !types.ValidComplexity(complexity) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid complexity", map[string]interface{}{
			"param":   "complexity",
			"value":   complexity,
			"allowed": []string{"beginner", "intermediate", "advanced"},
		})
	}

	language := getStringDefault(args, "language", "")

	resp, err := s.retriever.Search(ctx, retriever.Options{
		Query:      query,
		Language:   language,
		Kind:       types.ResultExample,
		TopK:       topK,
		Complexity: types.Complexity(complexity),
	})
	if err != nil {
		return nil, s.searchError(err)
	}

	snap := resp.Snapshot
	formatted := make([]map[string]interface{}, 0, len(resp.Results))
	for _, r := range resp.Results {
		ex, ok := snap.KB.Example(r.Language, r.ID)
		if !ok {
			continue
		}
		formatted = append(formatted, map[string]interface{}{
			"example_id":      ex.ExampleID,
			"title":           ex.Title,
			"code":            ex.Code,
			"language":        ex.Language,
			"complexity":      ex.Complex,
			"use_case":        ex.UseCase,
			"apis_used":       ex.APIsUsed,
			"tags":            ex.Tags,
			"prerequisites":   ex.Prerequisites,
			"expected_output": ex.ExpectedOutput,
			"validated":       ex.Validated,
			"relevance_score": r.Score,
			"keyword_rank":    r.KeywordRank,
			"vector_rank":     r.VectorRank,
		})
	}

	response := map[string]interface{}{
		"query": query,
		"mode":  resp.Mode,
		"filters": map[string]interface{}{
			"language":   language,
			"complexity": complexity,
		},
		"total_results": len(formatted),
		"results":       formatted,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleReportIssue handles the report_issue tool invocation
func (s *Server) handleReportIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	issueType := getStringDefault(args, "issue_type", "")
	if !types.ValidIssueType(issueType) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid issue_type", map[string]interface{}{
			"param":   "issue_type",
			"value":   issueType,
			"allowed": []string{"broken_example", "incorrect_signature", "unclear_docs", "missing_info", "other"},
		})
	}

	description := getStringDefault(args, "description", "")
	if description == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "description parameter is required", map[string]interface{}{
			"param":  "description",
			"reason": "missing or empty",
		})
	}

	severity := getStringDefault(args, "severity", "medium")
	if !types.ValidSeverity(severity) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid severity", map[string]interface{}{
			"param":   "severity",
			"value":   severity,
			"allowed": []string{"critical", "high", "medium", "low"},
		})
	}

	issueID, err := s.feedback.Report(types.FeedbackIssue{
		Type:        types.IssueType(issueType),
		Description: description,
		APIID:       getStringDefault(args, "api_id", ""),
		ExampleID:   getStringDefault(args, "example_id", ""),
		Severity:    types.Severity(severity),
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to record feedback", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.log.Info("feedback recorded", zap.String("issue_id", issueID), zap.String("type", issueType))

	response := map[string]interface{}{
		"issue_id": issueID,
		"message":  "Issue logged for maintainer review.",
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetAPIDetails handles the get_api_details tool invocation
func (s *Server) handleGetAPIDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	apiID := getStringDefault(args, "api_id", "")
	if apiID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "api_id parameter is required", map[string]interface{}{
			"param":  "api_id",
			"reason": "missing or empty",
		})
	}

	snap := s.store.Current()
	if snap == nil {
		return nil, newMCPError(ErrorCodeCatalogMissing, "no knowledge base loaded", nil)
	}

	language := getStringDefault(args, "language", "")
	api, ok := lookupAPI(snap.KB, language, apiID)
	if !ok {
		// Absence is an expected outcome, not a protocol error.
		response := map[string]interface{}{
			"found":  false,
			"api_id": apiID,
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	response := map[string]interface{}{
		"found": true,
		"api":   api,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetExampleDetails handles the get_example_details tool invocation
func (s *Server) handleGetExampleDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	exampleID := getStringDefault(args, "example_id", "")
	if exampleID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "example_id parameter is required", map[string]interface{}{
			"param":  "example_id",
			"reason": "missing or empty",
		})
	}

	snap := s.store.Current()
	if snap == nil {
		return nil, newMCPError(ErrorCodeCatalogMissing, "no knowledge base loaded", nil)
	}

	language := getStringDefault(args, "language", "")
	example, ok := lookupExample(snap.KB, language, exampleID)
	if !ok {
		response := map[string]interface{}{
			"found":      false,
			"example_id": exampleID,
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	response := map[string]interface{}{
		"found":   true,
		"example": example,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

func (s *Server) searchError(err error) error {
	if errors.Is(err, retriever.ErrNotReady) {
		return newMCPError(ErrorCodeCatalogMissing, "no knowledge base loaded", nil)
	}
	return newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
		"error": err.Error(),
	})
}

// lookupAPI resolves an api id, searching every language when language is
// empty.
func lookupAPI(kb *types.KnowledgeBase, language, id string) (*types.APIEntry, bool) {
	if language != "" {
		return kb.API(language, id)
	}
	for lang := range kb.APIs {
		if api, ok := kb.API(lang, id); ok {
			return api, true
		}
	}
	return nil, false
}

// lookupExample resolves an example id, searching every language when
// language is empty.
func lookupExample(kb *types.KnowledgeBase, language, id string) (*types.ExampleEntry, bool) {
	if language != "" {
		return kb.Example(language, id)
	}
	for lang := range kb.Examples {
		if ex, ok := kb.Example(lang, id); ok {
			return ex, true
		}
	}
	return nil, false
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getFloatDefault extracts a number parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
