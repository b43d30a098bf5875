package booking

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies the entity a queue message is about. The set is closed:
// decoding rejects anything else, so a new entity type is a compile-visible
// extension here rather than a string falling through a default branch.
type Kind string

const KindBooking Kind = "booking"

func (k Kind) Valid() bool {
	return k == KindBooking
}

// Action selects the mutation a booking message carries.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Envelope is the wire format of a queue message.
type Envelope struct {
	Type Kind    `json:"type"`
	Data Message `json:"data"`
}

// Message carries one booking mutation through the queue. The ID is minted by
// the API handler before enqueueing, which keeps redelivered create messages
// idempotent.
type Message struct {
	ID           string    `json:"_id"`
	Action       Action    `json:"action"`
	UserID       uint      `json:"user"`
	RoomID       uint      `json:"room"`
	HotelID      uint      `json:"hotel"`
	CheckInDate  time.Time `json:"checkInDate"`
	CheckOutDate time.Time `json:"checkOutDate"`
	TotalPrice   float64   `json:"totalPrice"`
	Guests       int       `json:"guests"`
}

func EncodeEnvelope(msg Message) ([]byte, error) {
	return json.Marshal(Envelope{Type: KindBooking, Data: msg})
}

func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode queue message: %w", err)
	}
	if !env.Type.Valid() {
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
	if !env.Data.Action.Valid() {
		return nil, fmt.Errorf("unknown action %q", env.Data.Action)
	}
	if env.Data.ID == "" {
		return nil, fmt.Errorf("message is missing a booking id")
	}
	return &env, nil
}
