package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dennisdiepolder/hopwhistle/internal/types"
)

// ListCalls returns one page of calls matching filter
func (c *Client) ListCalls(ctx context.Context, filter CallFilter) (*types.CallList, error) {
	var list types.CallList
	err := c.do(ctx, request{
		operation: "list_calls",
		method:    http.MethodGet,
		path:      pathWithQuery("/api/calls", filter.Encode()),
	}, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// GetCall returns a single call. Unknown ids yield a 404 APIError; see IsNotFound.
func (c *Client) GetCall(ctx context.Context, callID string) (*types.Call, error) {
	var call types.Call
	err := c.do(ctx, request{
		operation: "get_call",
		method:    http.MethodGet,
		path:      "/api/calls/" + url.PathEscape(callID),
	}, &call)
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// GetCallTranscript returns the transcript of a call
func (c *Client) GetCallTranscript(ctx context.Context, callID string) (*types.Transcript, error) {
	var transcript types.Transcript
	err := c.do(ctx, request{
		operation: "get_transcript",
		method:    http.MethodGet,
		path:      "/api/calls/" + url.PathEscape(callID) + "/transcript",
	}, &transcript)
	if err != nil {
		return nil, err
	}
	return &transcript, nil
}

// GetCallSummary returns the generated summary of a call
func (c *Client) GetCallSummary(ctx context.Context, callID string) (*types.CallSummary, error) {
	var summary types.CallSummary
	err := c.do(ctx, request{
		operation: "get_summary",
		method:    http.MethodGet,
		path:      "/api/calls/" + url.PathEscape(callID) + "/summary",
	}, &summary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
