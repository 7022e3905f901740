package v1

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/game"
)

// End closes a session stream
type End struct {
	SessionID string `json:"session_id"`
	Suspended bool   `json:"suspended,omitempty"`
}

// Message is one frame on the Play stream. Exactly one field is set.
// Prompts, events and the end frame travel server to client; actions
// travel client to server.
type Message struct {
	Prompt *game.Prompt `json:"prompt,omitempty"`
	Event  *game.Event  `json:"event,omitempty"`
	Action *game.Action `json:"action,omitempty"`
	End    *End         `json:"end,omitempty"`
}

// Encode converts a message to its wire form
func Encode(m *Message) (*structpb.Struct, error) {
	if m == nil {
		return nil, errors.InvalidArgument("message is required")
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode message")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, errors.Wrap(err, "failed to encode message")
	}
	return out, nil
}

// Decode reads a message from its wire form
func Decode(s *structpb.Struct) (*Message, error) {
	if s == nil {
		return nil, errors.InvalidArgument("message is required")
	}
	raw, err := protojson.Marshal(s)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed message")
	}
	m := &Message{}
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed message")
	}
	return m, nil
}
