package mcp

import (
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
)

// optionalString returns a pointer to the argument when it is present
func optionalString(request mcp.CallToolRequest, key string) (*string, error) {
	v, ok := request.GetArguments()[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("argument %q must be a string", key)
	}
	return &s, nil
}

func stringOrEmpty(request mcp.CallToolRequest, key string) (string, error) {
	p, err := optionalString(request, key)
	if err != nil || p == nil {
		return "", err
	}
	return *p, nil
}

// requireIndex reads a non-negative integer argument
func requireIndex(request mcp.CallToolRequest, key string) (int, error) {
	v, ok := request.GetArguments()[key]
	if !ok {
		return 0, fmt.Errorf("required argument %q not found", key)
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, fmt.Errorf("argument %q must be a number", key)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("argument %q must be an integer", key)
	}
	return int(f), nil
}

// requireStrings reads a non-empty array of strings
func requireStrings(request mcp.CallToolRequest, key string) ([]string, error) {
	v, ok := request.GetArguments()[key]
	if !ok {
		return nil, fmt.Errorf("required argument %q not found", key)
	}

	var out []string
	switch items := v.(type) {
	case []string:
		out = items
	case []any:
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("argument %q item %d must be a string", key, i)
			}
			out = append(out, s)
		}
	default:
		return nil, fmt.Errorf("argument %q must be an array of strings", key)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("argument %q cannot be empty", key)
	}
	return out, nil
}
