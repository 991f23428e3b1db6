package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnreachable covers transport-level failures: timeouts, connection
// refused, or response bodies the provider API contract says cannot happen.
var ErrUnreachable = errors.New("payment gateway unreachable")

// InitializationError means the provider rejected the initialization request,
// or accepted it but returned incomplete data. Detail carries the provider's
// raw response body so callers can surface it.
type InitializationError struct {
	ProviderStatus string
	Detail         json.RawMessage
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("payment initialization failed (provider status %q)", e.ProviderStatus)
}
