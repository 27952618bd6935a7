package camedomotic

import (
	"context"
)

// GatewayClient defines the interface for CAME Domotic operations.
// Client implements it, enabling mocking for tests.
type GatewayClient interface {
	// Users
	ListUsers(ctx context.Context) ([]User, error)
	SetCurrentUser(ctx context.Context, username, password string) error

	// Gateway
	GetServerInfo(ctx context.Context) (*ServerInfo, error)
	GetUpdates(ctx context.Context) ([]Update, error)

	// Lights
	ListLights(ctx context.Context) ([]Light, error)
	SetLightStatus(ctx context.Context, light *Light, status LightStatus, brightness ...int) error

	// Openings
	ListOpenings(ctx context.Context) ([]Opening, error)
	SetOpeningStatus(ctx context.Context, opening *Opening, status OpeningStatus) error

	Close(ctx context.Context)
}

// Compile-time interface check.
var _ GatewayClient = (*Client)(nil)
