package apiclient

import (
	"net/http"
	"net/url"
	"sort"
)

// Action is the dispatch tag understood by the directory.
type Action string

const (
	ActionRegister     Action = "register"
	ActionCheckStatus  Action = "checkStatus"
	ActionGetUsers     Action = "getUsers"
	ActionUpdateStatus Action = "updateStatus"
)

// Credentials are the admin username and password. The directory has no
// token exchange, so they travel with every admin call.
type Credentials struct {
	Username string
	Password string
}

// Request is one of the four directory calls. The set is closed: the
// unexported methods keep other packages from adding actions.
type Request interface {
	Action() Action
	method() string
	params() url.Values
}

type RegisterRequest struct {
	Name  string
	Email string
}

type CheckStatusRequest struct {
	Email string
}

type GetUsersRequest struct {
	Credentials
}

type UpdateStatusRequest struct {
	Email     string
	NewStatus string
	Credentials
}

func (RegisterRequest) Action() Action     { return ActionRegister }
func (CheckStatusRequest) Action() Action  { return ActionCheckStatus }
func (GetUsersRequest) Action() Action     { return ActionGetUsers }
func (UpdateStatusRequest) Action() Action { return ActionUpdateStatus }

func (RegisterRequest) method() string     { return http.MethodPost }
func (CheckStatusRequest) method() string  { return http.MethodGet }
func (GetUsersRequest) method() string     { return http.MethodGet }
func (UpdateStatusRequest) method() string { return http.MethodPost }

func (r RegisterRequest) params() url.Values {
	return url.Values{"name": {r.Name}, "email": {r.Email}}
}

func (r CheckStatusRequest) params() url.Values {
	return url.Values{"email": {r.Email}}
}

func (r GetUsersRequest) params() url.Values {
	return url.Values{"username": {r.Username}, "password": {r.Password}}
}

func (r UpdateStatusRequest) params() url.Values {
	return url.Values{
		"email":     {r.Email},
		"newStatus": {r.NewStatus},
		"username":  {r.Username},
		"password":  {r.Password},
	}
}

func sortedKeys(v url.Values) []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
