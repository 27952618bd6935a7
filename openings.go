package camedomotic

import (
	"context"
	"encoding/json"
)

// OpeningStatus is the movement state of an opening.
type OpeningStatus int

// Opening statuses reported and accepted by the gateway.
const (
	OpeningStopped OpeningStatus = 0
	OpeningOpening OpeningStatus = 1
	OpeningClosing OpeningStatus = 2
)

// OpeningType is the kind of opening actuator.
type OpeningType int

// Opening types reported by the gateway.
const (
	OpeningTypeShutter OpeningType = 0
)

// Opening is an opening actuator (shutter, awning, gate) defined on the
// gateway. Openings carry two actuator IDs: one drives the opening motion,
// the other the closing motion.
type Opening struct {
	Name       string        `json:"name"`
	OpenActID  int           `json:"open_act_id"`
	CloseActID int           `json:"close_act_id"`
	FloorInd   int           `json:"floor_ind"`
	RoomInd    int           `json:"room_ind"`
	Status     OpeningStatus `json:"status"`
	Type       OpeningType   `json:"type"`

	// Partial holds the configured partial-opening positions. The element
	// shape varies across firmware revisions, so it is kept raw.
	Partial json.RawMessage `json:"partial,omitempty"`
}

// openingListResponse is the gateway response to openings_list_req.
type openingListResponse struct {
	Openings []Opening `json:"array"`
}

// ListOpenings returns all opening actuators defined on the gateway.
func (c *Client) ListOpenings(ctx context.Context) ([]Opening, error) {
	clientID, err := c.session.ValidClientID(ctx)
	if err != nil {
		return nil, err
	}

	payload := dataRequestPayload(clientID, c.session.Cseq(), map[string]any{
		"cmd_name":        "openings_list_req",
		"topologic_scope": "plant",
		"value":           0,
	})
	data, err := c.session.SendCommand(ctx, payload)
	if err != nil {
		return nil, err
	}

	resp, err := unmarshalResponse[openingListResponse](data, "opening list")
	if err != nil {
		return nil, err
	}
	return resp.Openings, nil
}

// SetOpeningStatus moves or stops an opening. The closing actuator ID is
// used for CLOSING, the opening one for everything else. The opening's
// local state is updated after the gateway confirms the command.
func (c *Client) SetOpeningStatus(ctx context.Context, opening *Opening, status OpeningStatus) error {
	clientID, err := c.session.ValidClientID(ctx)
	if err != nil {
		return err
	}

	actID := opening.OpenActID
	if status == OpeningClosing {
		actID = opening.CloseActID
	}

	payload := dataRequestPayload(clientID, c.session.Cseq()+1, map[string]any{
		"act_id":        actID,
		"cmd_name":      "opening_move_req",
		"wanted_status": int(status),
	})

	if _, err := c.session.SendCommand(ctx, payload); err != nil {
		return err
	}

	opening.Status = status
	return nil
}
