package mcp

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docmentor/docmentor-mcp/internal/catalog"
	"github.com/docmentor/docmentor-mcp/internal/feedback"
	"github.com/docmentor/docmentor-mcp/internal/retriever"
	"github.com/docmentor/docmentor-mcp/pkg/types"
)

func newTestServer(t *testing.T, publish bool) *Server {
	t.Helper()

	store := catalog.NewStore()
	if publish {
		apis := []*types.APIEntry{
			{
				APIID:           "db.connect",
				Language:        "python",
				Signature:       "def connect(uri: str) -> Connection",
				Description:     "Open a connection to the database",
				ImportanceScore: 0.9,
				Tags:            []string{"database"},
			},
			{
				APIID:           "table.search",
				Language:        "python",
				Signature:       "def search(query: str) -> Results",
				Description:     "Run a similarity search over a table",
				ImportanceScore: 0.7,
			},
		}
		examples := []*types.ExampleEntry{
			{
				ExampleID: "connect_ex1",
				Title:     "Connecting quickstart",
				Code:      "conn = db.connect('demo')",
				Language:  "python",
				APIsUsed:  []string{"db.connect"},
				Complex:   types.ComplexityBeginner,
				UseCase:   "connect to a local database",
			},
		}
		kb, _, err := catalog.Build(apis, examples, types.LibraryOverview{Name: "demo", Version: "1.0"})
		require.NoError(t, err)
		snap, _, err := catalog.BuildSnapshot(context.Background(), kb, nil, nil)
		require.NoError(t, err)
		store.Publish(snap)
	}

	fb, err := feedback.NewStore(filepath.Join(t.TempDir(), "feedback.jsonl"))
	require.NoError(t, err)

	srv, err := NewServer(Deps{
		Store:     store,
		Retriever: retriever.New(store, nil, nil),
		Feedback:  fb,
	})
	require.NoError(t, err)
	return srv
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultJSON decodes the text payload of a tool result.
func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "tool results carry a single text payload")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	return decoded
}

func requireMCPError(t *testing.T, err error, code int) *MCPError {
	t.Helper()
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, code, mcpErr.Code)
	return mcpErr
}

func TestNewServer_RequiresDeps(t *testing.T) {
	store := catalog.NewStore()
	fb, err := feedback.NewStore(filepath.Join(t.TempDir(), "feedback.jsonl"))
	require.NoError(t, err)
	r := retriever.New(store, nil, nil)

	_, err = NewServer(Deps{Retriever: r, Feedback: fb})
	assert.Error(t, err)
	_, err = NewServer(Deps{Store: store, Feedback: fb})
	assert.Error(t, err)
	_, err = NewServer(Deps{Store: store, Retriever: r})
	assert.Error(t, err)

	srv, err := NewServer(Deps{Store: store, Retriever: r, Feedback: fb})
	require.NoError(t, err)
	assert.NotNil(t, srv.log, "nil logger falls back to a no-op logger")
}

func TestGetOverview(t *testing.T) {
	srv := newTestServer(t, true)

	result, err := srv.handleGetOverview(context.Background(), toolRequest("get_overview", nil))
	require.NoError(t, err)

	decoded := resultJSON(t, result)
	stats := decoded["statistics"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["total_apis"])
	assert.Equal(t, float64(1), stats["total_examples"])
	assert.Equal(t, false, decoded["vector_search"])
}

func TestGetOverview_NoCatalog(t *testing.T) {
	srv := newTestServer(t, false)

	_, err := srv.handleGetOverview(context.Background(), toolRequest("get_overview", nil))
	requireMCPError(t, err, ErrorCodeCatalogMissing)
}

func TestFindAPI(t *testing.T) {
	srv := newTestServer(t, true)

	result, err := srv.handleFindAPI(context.Background(), toolRequest("find_api", map[string]interface{}{
		"query": "open a database connection",
	}))
	require.NoError(t, err)

	decoded := resultJSON(t, result)
	assert.Equal(t, string(types.ModeKeywordOnly), decoded["mode"])

	results := decoded["results"].([]interface{})
	require.NotEmpty(t, results)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "db.connect", first["api_id"])
	assert.NotEmpty(t, first["signature"])
	assert.Greater(t, first["relevance_score"].(float64), 0.0)
}

func TestFindAPI_Validation(t *testing.T) {
	srv := newTestServer(t, true)
	ctx := context.Background()

	_, err := srv.handleFindAPI(ctx, toolRequest("find_api", map[string]interface{}{}))
	requireMCPError(t, err, ErrorCodeEmptyQuery)

	_, err = srv.handleFindAPI(ctx, toolRequest("find_api", map[string]interface{}{
		"query": "connect",
		"top_k": float64(0),
	}))
	requireMCPError(t, err, ErrorCodeInvalidParams)

	_, err = srv.handleFindAPI(ctx, toolRequest("find_api", map[string]interface{}{
		"query":          "connect",
		"min_importance": float64(1.5),
	}))
	requireMCPError(t, err, ErrorCodeInvalidParams)
}

func TestFindAPI_NoCatalog(t *testing.T) {
	srv := newTestServer(t, false)

	_, err := srv.handleFindAPI(context.Background(), toolRequest("find_api", map[string]interface{}{
		"query": "connect",
	}))
	requireMCPError(t, err, ErrorCodeCatalogMissing)
}

func TestGetExamples(t *testing.T) {
	srv := newTestServer(t, true)

	result, err := srv.handleGetExamples(context.Background(), toolRequest("get_examples", map[string]interface{}{
		"query":      "quickstart connection",
		"complexity": "beginner",
	}))
	require.NoError(t, err)

	decoded := resultJSON(t, result)
	results := decoded["results"].([]interface{})
	require.Len(t, results, 1)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "connect_ex1", first["example_id"])
	assert.NotEmpty(t, first["code"])
}

func TestGetExamples_InvalidComplexity(t *testing.T) {
	srv := newTestServer(t, true)

	_, err := srv.handleGetExamples(context.Background(), toolRequest("get_examples", map[string]interface{}{
		"query":      "connect",
		"complexity": "expert",
	}))
	requireMCPError(t, err, ErrorCodeInvalidParams)
}

func TestReportIssue(t *testing.T) {
	srv := newTestServer(t, true)

	result, err := srv.handleReportIssue(context.Background(), toolRequest("report_issue", map[string]interface{}{
		"issue_type":  "broken_example",
		"description": "example fails on the second step",
		"example_id":  "connect_ex1",
		"severity":    "high",
	}))
	require.NoError(t, err)

	decoded := resultJSON(t, result)
	issueID := decoded["issue_id"].(string)
	assert.NotEmpty(t, issueID)

	// The report is durably appended, not just acknowledged.
	issues, warnings, err := srv.feedback.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, issues, 1)
	assert.Equal(t, issueID, issues[0].IssueID)
	assert.Equal(t, types.IssueBrokenExample, issues[0].Type)
	assert.Equal(t, types.SeverityHigh, issues[0].Severity)
}

func TestReportIssue_Validation(t *testing.T) {
	srv := newTestServer(t, true)
	ctx := context.Background()

	_, err := srv.handleReportIssue(ctx, toolRequest("report_issue", map[string]interface{}{
		"issue_type":  "typo",
		"description": "d",
	}))
	requireMCPError(t, err, ErrorCodeInvalidParams)

	_, err = srv.handleReportIssue(ctx, toolRequest("report_issue", map[string]interface{}{
		"issue_type": "other",
	}))
	requireMCPError(t, err, ErrorCodeInvalidParams)

	_, err = srv.handleReportIssue(ctx, toolRequest("report_issue", map[string]interface{}{
		"issue_type":  "other",
		"description": "d",
		"severity":    "catastrophic",
	}))
	requireMCPError(t, err, ErrorCodeInvalidParams)
}

func TestGetAPIDetails(t *testing.T) {
	srv := newTestServer(t, true)
	ctx := context.Background()

	result, err := srv.handleGetAPIDetails(ctx, toolRequest("get_api_details", map[string]interface{}{
		"api_id": "db.connect",
	}))
	require.NoError(t, err)
	decoded := resultJSON(t, result)
	assert.Equal(t, true, decoded["found"])

	// An unknown id is an expected outcome, not a protocol error.
	result, err = srv.handleGetAPIDetails(ctx, toolRequest("get_api_details", map[string]interface{}{
		"api_id": "db.gone",
	}))
	require.NoError(t, err)
	decoded = resultJSON(t, result)
	assert.Equal(t, false, decoded["found"])
	assert.Equal(t, "db.gone", decoded["api_id"])
}

func TestGetExampleDetails(t *testing.T) {
	srv := newTestServer(t, true)
	ctx := context.Background()

	result, err := srv.handleGetExampleDetails(ctx, toolRequest("get_example_details", map[string]interface{}{
		"example_id": "connect_ex1",
		"language":   "python",
	}))
	require.NoError(t, err)
	decoded := resultJSON(t, result)
	assert.Equal(t, true, decoded["found"])

	result, err = srv.handleGetExampleDetails(ctx, toolRequest("get_example_details", map[string]interface{}{
		"example_id": "missing_ex",
	}))
	require.NoError(t, err)
	decoded = resultJSON(t, result)
	assert.Equal(t, false, decoded["found"])
}

func TestServe_ReturnsOnClientEOF(t *testing.T) {
	srv := newTestServer(t, true)

	err := srv.serve(context.Background(), strings.NewReader(""), io.Discard)
	assert.NoError(t, err)
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	srv := newTestServer(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never yields data proves the return comes from the
	// canceled context, not from EOF.
	in, _ := io.Pipe()
	err := srv.serve(ctx, in, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMCPError_Format(t *testing.T) {
	err := &MCPError{Code: -32602, Message: "invalid params"}
	assert.Equal(t, "MCP error -32602: invalid params", err.Error())
}
