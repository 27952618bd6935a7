package camedomotic

import (
	"context"
)

// Update is a single raw status update pushed by the gateway. Updates are
// heterogeneous (light states, opening movements, thermo readings), so they
// are surfaced as decoded JSON objects for the caller to interpret by their
// cmd_name field.
type Update map[string]any

// updateListResponse is the gateway response to status_update_req.
type updateListResponse struct {
	Result []Update `json:"result"`
}

// GetUpdates drains the queue of status updates accumulated on the gateway
// for this session, in chronological order. The list is empty when nothing
// changed since the last call.
func (c *Client) GetUpdates(ctx context.Context) ([]Update, error) {
	clientID, err := c.session.ValidClientID(ctx)
	if err != nil {
		return nil, err
	}

	payload := dataRequestPayload(clientID, c.session.Cseq(), map[string]any{
		"cmd_name": "status_update_req",
	})
	data, err := c.session.SendCommand(ctx, payload)
	if err != nil {
		return nil, err
	}

	resp, err := unmarshalResponse[updateListResponse](data, "update list")
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}
