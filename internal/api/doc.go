// Package api is the HTTP client for the encore catalog backend.
//
// Only the calls the player core depends on live here: lyrics, addons,
// addon play reporting and artist follows. Responses are decoded into
// transport types (types.go) and converted to package model values before
// they reach any action. Requests carry a bearer token when one is
// configured; guests call the same endpoints without it.
package api
