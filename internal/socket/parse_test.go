// internal/socket/parse_test.go
package socket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coopwise-client/internal/domain/notification"
)

func TestParseFrame(t *testing.T) {
	t.Run("ObjectFrame", func(t *testing.T) {
		raw := []byte(`{"id":"n1","title":"Payout Sent","event_type":"payout","type":"success","status":"unread","is_read":false,"created_at":"2026-01-05T10:00:00Z"}`)

		n, err := ParseFrame(raw)
		require.NoError(t, err)
		assert.Equal(t, "n1", n.ID)
		assert.Equal(t, notification.EventPayout, n.EventType)
		assert.Equal(t, notification.SeveritySuccess, n.Severity)
	})

	t.Run("DoubleEncodedFrame", func(t *testing.T) {
		// A JSON string wrapping the record, as some push paths deliver it.
		raw := []byte(`"{\"id\":\"n2\",\"event_type\":\"group\",\"created_at\":\"2026-01-05T10:00:00Z\"}"`)

		n, err := ParseFrame(raw)
		require.NoError(t, err)
		assert.Equal(t, "n2", n.ID)
	})

	t.Run("NotJSON", func(t *testing.T) {
		_, err := ParseFrame([]byte(`{not json`))
		assert.ErrorIs(t, err, ErrMalformedFrame)
	})

	t.Run("EmptyFrame", func(t *testing.T) {
		_, err := ParseFrame([]byte("  "))
		assert.ErrorIs(t, err, ErrMalformedFrame)
	})

	t.Run("MissingID", func(t *testing.T) {
		_, err := ParseFrame([]byte(`{"title":"no id here"}`))
		assert.ErrorIs(t, err, ErrMalformedFrame)
	})

	t.Run("DefaultsStatusFromReadFlag", func(t *testing.T) {
		n, err := ParseFrame([]byte(`{"id":"n3","is_read":true}`))
		require.NoError(t, err)
		assert.Equal(t, notification.StatusRead, n.Status)

		n, err = ParseFrame([]byte(`{"id":"n4"}`))
		require.NoError(t, err)
		assert.Equal(t, notification.StatusUnread, n.Status)
	})

	t.Run("ReadStatusImpliesReadFlag", func(t *testing.T) {
		n, err := ParseFrame([]byte(`{"id":"n5","status":"read","is_read":false}`))
		require.NoError(t, err)
		assert.True(t, n.IsRead)
	})
}
