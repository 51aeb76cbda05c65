package server

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
)

// Client -> Server message types
const (
	MsgInput   = "input"
	MsgRestart = "restart"
)

// Server -> Client message types. Snapshots travel as binary msgpack frames
// and have no envelope.
const (
	MsgWelcome  = "welcome"
	MsgEvent    = "event"
	MsgError    = "error"
	MsgCtrlOn   = "ctrl_on"  // notify viewers: controller attached
	MsgCtrlOff  = "ctrl_off" // notify viewers: controller detached
	MsgGameOver = "game_over"
)

// Binary input frame: [0x01, mx_hi, mx_lo, my_hi, my_lo, flags, 0, 0]
const (
	binaryInputTag = 0x01
	binaryInputLen = 8

	flagFire  = 0x01
	flagBoost = 0x02
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string `json:"t"`
	Data any    `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; RawMessage avoids a double decode
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is the JSON form of a control intent
type ClientInput struct {
	MX    float64 `json:"mx"` // target X (world coords)
	MY    float64 `json:"my"` // target Y (world coords)
	Fire  bool    `json:"fire"`
	Boost bool    `json:"boost"`
}

// Intent converts the wire input for game.HandleInput
func (in ClientInput) Intent() game.Intent {
	return game.Intent{TargetX: in.MX, TargetY: in.MY, Fire: in.Fire, Boost: in.Boost}
}

// WelcomeMsg is sent right after the upgrade
type WelcomeMsg struct {
	Role      string     `json:"role"`
	World     game.World `json:"world"`
	HighScore int        `json:"hs"`
}

// EventMsg mirrors a game.Event for viewers
type EventMsg struct {
	Kind  string  `json:"k"`
	Type  string  `json:"t,omitempty"`
	ID    string  `json:"id,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value int     `json:"v,omitempty"`
}

// ErrorMsg reports a rejected request
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// PairResponse is returned by the pairing token endpoint
type PairResponse struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	ExpiresAt int64  `json:"exp"`
}

// ScoresResponse is returned by the scores endpoint. Live includes the run
// in progress; HighScore is what has been stored.
type ScoresResponse struct {
	HighScore int `json:"hs"`
	Live      int `json:"live"`
}

// EncodeSnapshot packs a snapshot into a binary frame
func EncodeSnapshot(s game.Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot is the inverse of EncodeSnapshot
func DecodeSnapshot(data []byte) (game.Snapshot, error) {
	var s game.Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return game.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// EncodeBinaryInput builds an 8-byte input frame. Coordinates are truncated
// to int16.
func EncodeBinaryInput(in ClientInput) []byte {
	mx, my := uint16(int16(clampInt16(in.MX))), uint16(int16(clampInt16(in.MY)))
	var flags byte
	if in.Fire {
		flags |= flagFire
	}
	if in.Boost {
		flags |= flagBoost
	}
	return []byte{binaryInputTag, byte(mx >> 8), byte(mx), byte(my >> 8), byte(my), flags, 0, 0}
}

// decodeBinaryInput reads an 8-byte input frame; ok is false for anything else
func decodeBinaryInput(msg []byte) (ClientInput, bool) {
	if len(msg) != binaryInputLen || msg[0] != binaryInputTag {
		return ClientInput{}, false
	}
	mx := float64(int16(uint16(msg[1])<<8 | uint16(msg[2])))
	my := float64(int16(uint16(msg[3])<<8 | uint16(msg[4])))
	flags := msg[5]
	return ClientInput{
		MX:    mx,
		MY:    my,
		Fire:  flags&flagFire != 0,
		Boost: flags&flagBoost != 0,
	}, true
}

func clampInt16(v float64) float64 {
	switch {
	case v != v:
		return 0
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	}
	return v
}

func eventMsg(e game.Event) EventMsg {
	m := EventMsg{
		Kind:  e.Kind.String(),
		ID:    e.ID,
		X:     e.Position.X,
		Y:     e.Position.Y,
		Value: e.Value,
	}
	if e.Type.Valid() {
		m.Type = e.Type.String()
	}
	return m
}
