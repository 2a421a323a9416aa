package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// jsonResult wraps data as a single JSON text content block.
func jsonResult(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal tool response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(content)},
		},
	}, nil
}

// toolError reports a failed tool call. The failure travels inside the
// result with IsError set rather than as a protocol error, so the
// client sees what went wrong and can correct the next call.
func toolError(operation string, err error) (*mcp.CallToolResult, error) {
	result, marshalErr := jsonResult(map[string]interface{}{
		"error":     err.Error(),
		"operation": operation,
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	result.IsError = true
	return result, nil
}
