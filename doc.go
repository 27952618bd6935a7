// Package camedomotic provides a Go client library for the proprietary
// HTTP/JSON control protocol of CAME Domotic home-automation gateways.
//
// The gateway speaks a session-layer protocol on a single endpoint
// (http://<host>/domo/): every request is a form-encoded POST carrying a
// JSON envelope, and every response carries an integer acknowledgement code.
// Sessions are established with username/password credentials and expire
// server-side unless kept alive; this library renews them transparently
// before each outgoing command, so callers never deal with tokens directly.
//
// # Basic Usage
//
// Create a client and list the lights defined on the gateway:
//
//	client, err := camedomotic.NewClient(ctx, "192.168.1.3", "admin", "secret")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
//	lights, err := client.ListLights(ctx)
//	for _, light := range lights {
//	    fmt.Printf("Light: %s (ID %d)\n", light.Name, light.ActID)
//	}
//
// Turn a light on:
//
//	err = client.SetLightStatus(ctx, &lights[0], camedomotic.LightOn)
//
// # Error Handling
//
// Every operation returns one of three error kinds, inspectable with
// IsServerNotFound, IsAuthError, and IsServerError. Gateway acknowledgement
// failures additionally carry the numeric code as an *AckError:
//
//	var ackErr *camedomotic.AckError
//	if errors.As(err, &ackErr) {
//	    fmt.Printf("gateway rejected the command with code %d\n", ackErr.Code)
//	}
//
// # Concurrency
//
// A Client (and its underlying Session) is safe for concurrent use. Logins
// and renewals are serialized so that many callers racing against an expired
// session trigger exactly one login request.
package camedomotic
