package kiwoom

import (
	"fmt"
)

// MsgNoResponse is the BrokerError message used when the body is absent
const MsgNoResponse = "no response"

// AuthError reports a failed token issuance.
// The request that needed the token cannot proceed.
type AuthError struct {
	StatusCode int    // HTTP status of the issuance call, 0 if none
	Message    string // broker return_msg or a local description
	Err        error
}

func (e *AuthError) Error() string {
	msg := "kiwoom token issuance failed"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// BrokerError reports a business-level or transport failure of a data call.
// ReturnCode is the broker's embedded return_code when one was present.
type BrokerError struct {
	APIID      string
	ReturnCode int
	Message    string
	StatusCode int
	Err        error
}

func (e *BrokerError) Error() string {
	msg := fmt.Sprintf("kiwoom %s: %s", e.APIID, e.Message)
	if e.ReturnCode != 0 {
		msg += fmt.Sprintf(" (return_code=%d)", e.ReturnCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BrokerError) Unwrap() error { return e.Err }
