package camedomotic

// Envelope builders for the CAME Domotic session-layer protocol.
// Every request is one of two shapes: a bare session command (login,
// keep-alive, logout, users list) or a data request wrapping an inner
// application message.

// loginPayload builds the registration (login) envelope.
func loginPayload(username, password string) map[string]any {
	return map[string]any{
		"sl_cmd":   "sl_registration_req",
		"sl_login": username,
		"sl_pwd":   password,
	}
}

// keepAlivePayload builds the session keep-alive envelope.
func keepAlivePayload(clientID string) map[string]any {
	return map[string]any{
		"sl_client_id": clientID,
		"sl_cmd":       "sl_keep_alive_req",
	}
}

// logoutPayload builds the logout envelope.
func logoutPayload(clientID string) map[string]any {
	return map[string]any{
		"sl_client_id": clientID,
		"sl_cmd":       "sl_logout_req",
	}
}

// usersListPayload builds the users list request envelope.
func usersListPayload(clientID string) map[string]any {
	return map[string]any{
		"sl_client_id": clientID,
		"sl_cmd":       "sl_users_list_req",
	}
}

// dataRequestPayload wraps an application message in the generic data
// request envelope. The message must carry at least cmd_name; client and
// cseq are filled in here.
func dataRequestPayload(clientID string, cseq int, msg map[string]any) map[string]any {
	msg["client"] = clientID
	msg["cseq"] = cseq
	return map[string]any{
		"sl_appl_msg":      msg,
		"sl_appl_msg_type": "domo",
		"sl_client_id":     clientID,
		"sl_cmd":           "sl_data_req",
	}
}

// commandName extracts the command identifier from a payload for logging.
func commandName(payload any) string {
	m, ok := payload.(map[string]any)
	if !ok {
		return ""
	}
	if msg, ok := m["sl_appl_msg"].(map[string]any); ok {
		if name, ok := msg["cmd_name"].(string); ok {
			return name
		}
	}
	name, _ := m["sl_cmd"].(string)
	return name
}
