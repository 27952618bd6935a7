package camedomotic

import (
	"context"
	"fmt"
)

// User is a user account defined on the gateway.
type User struct {
	Name string `json:"name"`
}

// usersListResponse is the gateway response to sl_users_list_req.
type usersListResponse struct {
	Users []User `json:"sl_users_list"`
}

// ListUsers returns the users defined on the gateway. The list is empty if
// the gateway reports none.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	clientID, err := c.session.ValidClientID(ctx)
	if err != nil {
		return nil, err
	}

	data, err := c.session.SendCommand(ctx, usersListPayload(clientID))
	if err != nil {
		return nil, err
	}

	resp, err := unmarshalResponse[usersListResponse](data, "users list")
	if err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// SetCurrentUser switches the session to another gateway user: it logs out
// the current session, installs the new credentials, and logs in again. If
// any step fails, the previous session state is restored in full, including
// the original credentials, so subsequent calls keep acting as the original
// user.
func (c *Client) SetCurrentUser(ctx context.Context, username, password string) error {
	if username == "" {
		return ErrEmptyUsername
	}

	snapshot := c.session.backup()
	if err := c.switchUser(ctx, username, password); err != nil {
		c.session.restore(snapshot)
		return fmt.Errorf("switching to user %q: %w", username, err)
	}
	return nil
}

func (c *Client) switchUser(ctx context.Context, username, password string) error {
	if err := c.session.Logout(ctx); err != nil {
		return err
	}
	if err := c.session.UpdateCredentials(username, password); err != nil {
		return err
	}
	return c.session.Login(ctx)
}
