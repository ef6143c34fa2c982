package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// getOverviewTool returns the tool definition for get_overview
func getOverviewTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_overview",
		Description: "Get the library overview: name, version, languages, key concepts, quickstart summary, and per-language entry counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// findAPITool returns the tool definition for find_api
func findAPITool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_api",
		Description: "Search the API catalog with natural language or keyword queries",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (e.g., 'connect to database')",
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Filter by programming language (python, typescript, etc.)",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-50)",
					"default":     5,
					"minimum":     1,
					"maximum":     50,
				},
				"min_importance": map[string]interface{}{
					"type":        "number",
					"description": "Minimum importance score (0.0-1.0)",
					"default":     0.0,
					"minimum":     0.0,
					"maximum":     1.0,
				},
			},
			Required: []string{"query"},
		},
	}
}

// getExamplesTool returns the tool definition for get_examples
func getExamplesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_examples",
		Description: "Search code examples with natural language or keyword queries",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (e.g., 'vector search')",
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Filter by programming language",
				},
				"complexity": map[string]interface{}{
					"type":        "string",
					"description": "Filter by complexity tier",
					"enum":        []string{"beginner", "intermediate", "advanced"},
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-50)",
					"default":     5,
					"minimum":     1,
					"maximum":     50,
				},
			},
			Required: []string{"query"},
		},
	}
}

// reportIssueTool returns the tool definition for report_issue
func reportIssueTool() mcp.Tool {
	return mcp.Tool{
		Name:        "report_issue",
		Description: "Report a documentation issue (broken example, incorrect signature, unclear docs, missing info) for maintainer review",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"issue_type": map[string]interface{}{
					"type":        "string",
					"description": "Type of issue",
					"enum":        []string{"broken_example", "incorrect_signature", "unclear_docs", "missing_info", "other"},
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Detailed description of the issue",
				},
				"api_id": map[string]interface{}{
					"type":        "string",
					"description": "Related API ID (if applicable)",
				},
				"example_id": map[string]interface{}{
					"type":        "string",
					"description": "Related example ID (if applicable)",
				},
				"severity": map[string]interface{}{
					"type":        "string",
					"description": "Severity level",
					"enum":        []string{"critical", "high", "medium", "low"},
					"default":     "medium",
				},
			},
			Required: []string{"issue_type", "description"},
		},
	}
}

// getAPIDetailsTool returns the tool definition for get_api_details
func getAPIDetailsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_api_details",
		Description: "Fetch the full record for one API by id",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"api_id": map[string]interface{}{
					"type":        "string",
					"description": "Fully-qualified API id",
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Language namespace of the id; all languages are searched when omitted",
				},
			},
			Required: []string{"api_id"},
		},
	}
}

// getExampleDetailsTool returns the tool definition for get_example_details
func getExampleDetailsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_example_details",
		Description: "Fetch the full record for one example by id, including its code",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"example_id": map[string]interface{}{
					"type":        "string",
					"description": "Example id",
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Language namespace of the id; all languages are searched when omitted",
				},
			},
			Required: []string{"example_id"},
		},
	}
}
