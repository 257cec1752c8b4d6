// Package sera defines the wire vocabulary shared with the in-game SERA
// clients. Responses are always HTTP 200; outcome is communicated in-band as
// short text lines with a display color code, because the clients render onto
// constrained monitors and cannot branch on HTTP status.
package sera

import (
	"encoding/json"
	"net/http"
)

// Display color codes understood by the client monitors.
const (
	ColorInfo  = 512   // informational / success
	ColorAlert = 0     // alert banner
	ColorError = 16384 // error / empty result
)

// TextValue is one rendered line on the client display.
type TextValue struct {
	Text  string `json:"text"`
	Color int    `json:"color"`
}

// Text is the text section of a response.
type Text struct {
	Values []TextValue `json:"values"`
}

// Voice asks the client to play a previously synthesized audio file.
type Voice struct {
	FileName string `json:"fileName"`
}

// Redirect routes the response to another modem channel; the computer hooked
// to that channel receives the message and acts on it. See pkg/channel for
// the addressing convention.
type Redirect struct {
	Channel int `json:"channel"`
}

// Response is the full response envelope understood by SERA clients. This
// server only populates Text; Voice and Redirect are used by the companion
// control system.
type Response struct {
	Voice       *Voice          `json:"voice,omitempty"`
	Text        *Text           `json:"text,omitempty"`
	JSONPayload json.RawMessage `json:"jsonPayload,omitempty"`
	Redirect    *Redirect       `json:"redirect,omitempty"`
}

// Request is the envelope SERA clients send.
type Request struct {
	OriginComputerID      string          `json:"originComputerId"`
	OriginComputerChannel int             `json:"originComputerChannel"`
	RequestID             string          `json:"requestId"`
	UserID                string          `json:"userId,omitempty"`
	JSONPayload           json.RawMessage `json:"jsonPayload"`
}

// Message builds a single-line text response.
func Message(text string, color int) Response {
	return Response{
		Text: &Text{
			Values: []TextValue{{Text: text, Color: color}},
		},
	}
}

// Write serializes a response. Always HTTP 200 — clients read the color code,
// not the status line.
func Write(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
