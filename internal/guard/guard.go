// Package guard decides which screen a user may reach given their session.
package guard

import "errors"

// State is the authentication state of the session.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// TokenSource is anything that can report the current bearer token.
type TokenSource interface {
	Token() (string, bool)
}

// Check derives the state from token presence alone.
func Check(src TokenSource) State {
	if src == nil {
		return Unauthenticated
	}
	if _, ok := src.Token(); ok {
		return Authenticated
	}
	return Unauthenticated
}

// Route names a screen.
type Route string

const (
	RouteDashboard Route = "/"
	RouteAnalytics Route = "/analytics"
	RouteProfile   Route = "/profile"
	RouteLogin     Route = "/login"
	RouteRegister  Route = "/registration"
)

// Protected reports whether r requires a session.
func (r Route) Protected() bool {
	switch r {
	case RouteDashboard, RouteAnalytics, RouteProfile:
		return true
	}
	return false
}

// Resolve maps a requested route to the one that should be shown.
func Resolve(r Route, s State) Route {
	if r.Protected() && s != Authenticated {
		return RouteLogin
	}
	return r
}

// ErrLoginRequired is returned by Require when there is no session.
var ErrLoginRequired = errors.New("not logged in -- run: saasdash login")

// Require returns ErrLoginRequired unless src holds a token.
func Require(src TokenSource) error {
	if Check(src) != Authenticated {
		return ErrLoginRequired
	}
	return nil
}
