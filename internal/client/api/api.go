// Package api is the typed surface of the attendance backend. Every call goes
// through a Caller, normally the gateway, so credential handling and 401
// reaction happen in one place.
package api

import (
	"context"

	"github.com/dmitrijs2005/attendance/internal/client/gateway"
)

// Caller sends one request and decodes the answer into out.
type Caller interface {
	Call(ctx context.Context, method, path string, body, out any, opts ...gateway.Option) error
}

// API groups the backend resources.
type API struct {
	Auth      *Auth
	Students  *Students
	Faculty   *Faculty
	Dashboard *Dashboard
	Courses   *Courses
	Reports   *Reports
}

func New(c Caller) *API {
	return &API{
		Auth:      &Auth{c: c},
		Students:  &Students{c: c},
		Faculty:   &Faculty{c: c},
		Dashboard: &Dashboard{c: c},
		Courses:   &Courses{c: c},
		Reports:   &Reports{c: c},
	}
}
