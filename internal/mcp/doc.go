// Package mcp implements the Model Context Protocol (MCP) server for DocMentor.
//
// The MCP server exposes six tools to AI coding assistants:
//   - get_overview: Library overview and per-language entry statistics
//   - find_api: Hybrid search over the API catalog
//   - get_examples: Hybrid search over code examples
//   - report_issue: Report a documentation issue for maintainer review
//   - get_api_details: Fetch one API record by id
//   - get_example_details: Fetch one example record by id
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// stdout carries protocol messages only; all logging goes to stderr.
//
// # Basic Usage
//
// The MCP server is typically started via the serve command:
//
//	docmentor serve --kb ./knowledge_base
//
// # Tool: find_api
//
// Search the API catalog:
//
//	Request:
//	{
//	  "name": "find_api",
//	  "arguments": {
//	    "query": "connect to database",
//	    "language": "python",
//	    "top_k": 5,
//	    "min_importance": 0.3
//	  }
//	}
//
//	Response:
//	{
//	  "query": "connect to database",
//	  "mode": "hybrid",
//	  "total_results": 2,
//	  "results": [
//	    {
//	      "api_id": "lancedb.connect",
//	      "signature": "def connect(uri: str) -> Connection",
//	      "relevance_score": 0.0123,
//	      "keyword_rank": 1,
//	      "vector_rank": 2
//	    }
//	  ]
//	}
//
// The mode field reports whether the vector index contributed to the
// answer ("hybrid") or the query ran lexically only ("keyword_only").
//
// # Tool: report_issue
//
// Append a documentation issue to the feedback log:
//
//	Request:
//	{
//	  "name": "report_issue",
//	  "arguments": {
//	    "issue_type": "broken_example",
//	    "description": "quickstart_ex1 raises ImportError",
//	    "example_id": "quickstart_ex1",
//	    "severity": "high"
//	  }
//	}
//
//	Response:
//	{
//	  "issue_id": "5f0c4f9a-...",
//	  "message": "Issue logged for maintainer review."
//	}
//
// # Error Handling
//
// Invalid parameters and internal failures are returned as structured
// MCP errors carrying a code, message, and detail payload. Lookup of an
// unknown id is not an error; the tool responds with found=false.
package mcp
