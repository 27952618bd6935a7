package camedomotic

import "fmt"

// ackMessages maps the acknowledgement codes returned by CAME Domotic
// gateways to their documented meanings. Code 0 is success and never
// reaches the classifier.
var ackMessages = map[int]string{
	1:  "Invalid user.",
	3:  "Too many sessions during login.",
	4:  "Error occurred in JSON Syntax.",
	5:  "No session layer command tag.",
	6:  "Unrecognized session layer command.",
	7:  "No client ID in request.",
	8:  "Wrong client ID in request.",
	9:  "Wrong application command.",
	10: "No reply to application command, maybe service down.",
	11: "Wrong application data.",
}

// authAckCodes are the acknowledgement codes that indicate an
// authentication failure rather than a generic gateway error.
var authAckCodes = map[int]bool{
	1: true,
	3: true,
}

// AckMessage returns the human-readable message for an acknowledgement code.
func AckMessage(code int) string {
	if msg, ok := ackMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("Unknown error code: %d", code)
}

// isAuthAck reports whether the code is authentication-related.
func isAuthAck(code int) bool {
	return authAckCodes[code]
}

// newAckError builds the classified error for a non-zero acknowledgement code.
func newAckError(code int) *AckError {
	return &AckError{Code: code, Message: AckMessage(code)}
}
