package galasaapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/xxxsen/galasaui/internal/model"
)

// GetUserByLoginID looks users up by login id; "me" resolves the caller.
func (c *Client) GetUserByLoginID(ctx context.Context, loginID string) ([]model.User, error) {
	query := url.Values{}
	query.Set("loginId", loginID)
	var out []model.User
	if err := c.do(ctx, "get users", http.MethodGet, "/users", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
