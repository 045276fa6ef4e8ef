package apiclient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		env  *Envelope
		err  error
		want string
	}{
		{"success", &Envelope{Result: ResultSuccess}, nil, outcomeSuccess},
		{"error result", &Envelope{Result: ResultError, Message: "User not found"}, nil, outcomeRejected},
		{"unknown result", &Envelope{Result: "maybe"}, nil, outcomeRejected},
		{"transport", nil, errors.New("dial tcp: refused"), outcomeTransport},
		{"rejected failure", nil, &Failure{Action: ActionGetUsers, Rejected: true}, outcomeRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcome(tt.env, tt.err))
		})
	}
}
