// internal/socket/errors.go
package socket

import "errors"

var (
	ErrMalformedFrame   = errors.New("malformed push frame")
	ErrAlreadyConnected = errors.New("connector already has a live socket")
	ErrConnectorClosed  = errors.New("connector is closed")
)
