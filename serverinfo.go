package camedomotic

import (
	"context"
)

// ServerInfo describes the gateway itself and the features it supports.
type ServerInfo struct {
	// Keycode is the gateway identifier (the MAC address, e.g. 001122AABBCC).
	Keycode string `json:"keycode"`
	// Serial is the gateway serial number.
	Serial string `json:"serial"`
	// Swver is the gateway software version.
	Swver string `json:"swver"`
	// Type is the gateway type.
	Type string `json:"type"`
	// Board is the gateway board type.
	Board string `json:"board"`
	// Features lists the capabilities the gateway exposes. Known values
	// include "lights", "openings", "thermoregulation", "scenarios",
	// "digitalin", "energy", and "loadsctrl".
	Features []string `json:"list"`
}

// GetServerInfo returns the gateway identification and feature list.
func (c *Client) GetServerInfo(ctx context.Context) (*ServerInfo, error) {
	clientID, err := c.session.ValidClientID(ctx)
	if err != nil {
		return nil, err
	}

	payload := dataRequestPayload(clientID, c.session.Cseq(), map[string]any{
		"cmd_name": "feature_list_req",
	})
	data, err := c.session.SendCommand(ctx, payload)
	if err != nil {
		return nil, err
	}

	return unmarshalResponse[ServerInfo](data, "server info")
}
