package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// ServiceCategories lists the categories the backend offers. Entries may
// be plain strings or objects carrying a value/name.
func (c *Client) ServiceCategories(ctx context.Context) ([]string, error) {
	var raw []json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/services/categories", nil, nil, &raw); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Value string `json:"value"`
			Name  string `json:"name"`
		}
		if err := json.Unmarshal(r, &obj); err == nil {
			if obj.Value != "" {
				out = append(out, obj.Value)
			} else if obj.Name != "" {
				out = append(out, obj.Name)
			}
		}
	}
	return out, nil
}
