// Package service drives the access gate and the admin roster from
// directory results. Every operation reduces under the session lock, makes
// at most one directory call with the lock released, then reduces the
// outcome.
package service

import (
	"context"
	"errors"

	"github.com/klse-analytics/portal/internal/apiclient"
)

// Directory is the remote subscriber directory, real or mocked.
type Directory interface {
	Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.RegisterResponse, error)
	CheckStatus(ctx context.Context, req apiclient.CheckStatusRequest) (*apiclient.StatusResponse, error)
	GetUsers(ctx context.Context, req apiclient.GetUsersRequest) (*apiclient.UsersResponse, error)
	UpdateStatus(ctx context.Context, req apiclient.UpdateStatusRequest) (*apiclient.UpdateStatusResponse, error)
}

// detach keeps a directory call running when the visitor's request goes
// away. The result is applied to the session whenever it arrives; the
// client timeout still bounds the call.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// failureMessage returns the visitor-facing text of a directory error, or
// fallback when the error carries none.
func failureMessage(err error, fallback string) string {
	var f *apiclient.Failure
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	return fallback
}
