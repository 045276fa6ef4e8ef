package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Envelope is the uniform response of every action. Fields other than
// Result are only meaningful when Result is "success".
type Envelope struct {
	Result     string          `json:"result"`
	Message    string          `json:"message,omitempty"`
	Status     string          `json:"status,omitempty"`
	ExpiryDate Text            `json:"expiryDate,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func (e *Envelope) Succeeded() bool {
	return e != nil && e.Result == ResultSuccess
}

// Failure is the single error type of this package. Message is safe to show
// to the visitor.
type Failure struct {
	Action   Action
	Message  string
	Rejected bool // the directory answered with result "error"
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Action, f.Message)
}

// transportMessage is the generic text shown when a call could not complete
// or the directory gave no reason.
func transportMessage(a Action) string {
	switch a {
	case ActionRegister:
		return "Network error occurred."
	case ActionCheckStatus:
		return "Unable to verify status."
	case ActionGetUsers:
		return "Failed to fetch users."
	case ActionUpdateStatus:
		return "Failed to update status."
	}
	return "Request failed."
}

// User is one roster row as the directory serializes it.
type User struct {
	Timestamp  Text `json:"timestamp"`
	Name       Text `json:"name"`
	Email      Text `json:"email"`
	Status     Text `json:"status"`
	Notes      Text `json:"notes"`
	ExpiryDate Text `json:"expiryDate,omitempty"`
}

// Text accepts the loosely typed cells a spreadsheet produces: strings,
// numbers, booleans and nulls all decode to their string form.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*t = Text(b)
	default:
		if _, err := strconv.ParseFloat(string(b), 64); err != nil {
			return fmt.Errorf("unsupported cell value %s", b)
		}
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}
