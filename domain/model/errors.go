package model

import "fmt"

// ValidationError reports a malformed or unsupported command payload.
// It is returned before any state mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: field %q %s", e.Field, e.Reason)
}

// TokenIssuanceError reports that the transport refused to grant channel access.
type TokenIssuanceError struct {
	Channel string
	Err     error
}

func (e *TokenIssuanceError) Error() string {
	return fmt.Sprintf("token issuance for channel %q failed: %v", e.Channel, e.Err)
}

func (e *TokenIssuanceError) Unwrap() error { return e.Err }

// DispatchError reports a publish failure after the local playback record was
// already updated. The record is intentionally left in the commanded state.
type DispatchError struct {
	Channel string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch to channel %q failed: %v", e.Channel, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
