package apiclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/klse-analytics/portal/shared/logger"
)

type RegisterResponse struct {
	Message string
}

type StatusResponse struct {
	Status     string
	ExpiryDate string
	Message    string
}

type UsersResponse struct {
	Users []User
}

type UpdateStatusResponse struct {
	Message string
}

// Register creates a subscriber in the Registered state.
func (c *APIClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	env, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return &RegisterResponse{Message: env.Message}, nil
}

// CheckStatus looks up a subscriber by email. Unknown emails come back as a
// rejection.
func (c *APIClient) CheckStatus(ctx context.Context, req CheckStatusRequest) (*StatusResponse, error) {
	env, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return &StatusResponse{Status: env.Status, ExpiryDate: env.ExpiryDate.String(), Message: env.Message}, nil
}

// GetUsers fetches the whole roster. A success doubles as proof that the
// credentials are valid.
func (c *APIClient) GetUsers(ctx context.Context, req GetUsersRequest) (*UsersResponse, error) {
	env, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	users, err := decodeUsers(env.Data)
	if err != nil {
		logger.Log.Error("directory returned malformed roster", "error", err)
		return nil, &Failure{Action: ActionGetUsers, Message: transportMessage(ActionGetUsers)}
	}
	return &UsersResponse{Users: users}, nil
}

// UpdateStatus sets a subscriber's status.
func (c *APIClient) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*UpdateStatusResponse, error) {
	env, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return &UpdateStatusResponse{Message: env.Message}, nil
}

func decodeUsers(data json.RawMessage) ([]User, error) {
	if len(data) == 0 || string(data) == "null" {
		return []User{}, nil
	}
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("cannot decode users: %w", err)
	}
	return users, nil
}
