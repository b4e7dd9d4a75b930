package ipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// maxFrameBytes bounds a single envelope. A full-board state snapshot is a
// few kilobytes; a length prefix anywhere near this is a corrupt frame.
const maxFrameBytes = 1 << 20

// Envelope is the wire format shared with the renderer process: a 4-byte
// little-endian length prefix followed by one JSON object. Data stays a
// RawMessage so handlers can defer decoding to the concrete message type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func NewEnvelope(msgType string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal data: %w", err)
	}
	return Envelope{Type: msgType, Data: raw}, nil
}

// ReadEnvelope reads a single length-prefixed envelope. The framing is the
// contract every renderer binding must follow.
func ReadEnvelope(r io.Reader) (Envelope, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return Envelope{}, fmt.Errorf("read length prefix: %w", err)
	}
	length := binary.LittleEndian.Uint32(prefix[:])
	if length == 0 || length > maxFrameBytes {
		return Envelope{}, fmt.Errorf("frame length %d outside (0, %d]", length, maxFrameBytes)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Envelope{}, fmt.Errorf("read payload: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}

// WriteEnvelope writes the prefix and payload as one buffer, so a frame is
// never torn across a failed partial write.
func WriteEnvelope(w io.Writer, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if len(payload) > maxFrameBytes {
		return fmt.Errorf("frame length %d exceeds %d", len(payload), maxFrameBytes)
	}

	frame := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(frame[:4], uint32(len(payload)))
	copy(frame[4:], payload)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
