package client

import (
	"context"
	"net/http"

	"github.com/dennisdiepolder/hopwhistle/internal/types"
)

// ListPartners returns all partners of the current account
func (c *Client) ListPartners(ctx context.Context) ([]types.Partner, error) {
	var envelope struct {
		Items []types.Partner `json:"items"`
	}
	err := c.do(ctx, request{
		operation: "list_partners",
		method:    http.MethodGet,
		path:      "/api/partners",
	}, &envelope)
	if err != nil {
		return nil, err
	}
	return envelope.Items, nil
}
