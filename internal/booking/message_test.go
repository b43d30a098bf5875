package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	msg := Message{
		ID:           "a2f1c9d0-0000-4000-8000-000000000001",
		Action:       ActionCreate,
		UserID:       7,
		RoomID:       3,
		HotelID:      2,
		CheckInDate:  date(2024, 1, 10),
		CheckOutDate: date(2024, 1, 15),
		TotalPrice:   500,
		Guests:       2,
	}

	body, err := EncodeEnvelope(msg)
	require.NoError(t, err)

	env, err := DecodeEnvelope(body)
	require.NoError(t, err)
	assert.Equal(t, KindBooking, env.Type)
	assert.Equal(t, msg, env.Data)
}

func TestDecodeEnvelopeRejectsUnknownType(t *testing.T) {
	body := []byte(`{"type":"ride","data":{"_id":"b1","action":"create"}}`)
	_, err := DecodeEnvelope(body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown message type")
}

func TestDecodeEnvelopeRejectsUnknownAction(t *testing.T) {
	body := []byte(`{"type":"booking","data":{"_id":"b1","action":"upsert"}}`)
	_, err := DecodeEnvelope(body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")
}

func TestDecodeEnvelopeRejectsMissingID(t *testing.T) {
	body := []byte(`{"type":"booking","data":{"action":"create"}}`)
	_, err := DecodeEnvelope(body)
	require.Error(t, err)
}

func TestDecodeEnvelopeRejectsMalformedJSON(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"type":`))
	require.Error(t, err)
}
