// internal/socket/parse.go
package socket

import (
	"bytes"
	"encoding/json"
	"fmt"

	"coopwise-client/internal/domain/notification"
)

// ParseFrame normalizes a raw push frame into a canonical Notification.
// Frames arrive either as a JSON object or as a JSON string wrapping the
// object (double-encoded); both are accepted. A frame that decodes to a
// record without an id is malformed, since the id is the dedup key.
func ParseFrame(raw []byte) (*notification.Notification, error) {
	payload := bytes.TrimSpace(raw)
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty frame", ErrMalformedFrame)
	}

	var inner string
	if err := json.Unmarshal(payload, &inner); err == nil {
		payload = []byte(inner)
	}

	var n notification.Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	// Keep the legacy flag pair coherent when the backend omits one side.
	if n.Status == "" {
		if n.IsRead {
			n.Status = notification.StatusRead
		} else {
			n.Status = notification.StatusUnread
		}
	}
	if n.Status == notification.StatusRead {
		n.IsRead = true
	}

	return &n, nil
}
