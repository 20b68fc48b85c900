package graph

import "errors"

var (
	// ErrIdenticalEndpoints is returned when a connection would start and
	// end at the same endpoint.
	ErrIdenticalEndpoints = errors.New("connection endpoints are identical")

	// ErrNilEndpoint is returned when a connection is given a nil endpoint.
	ErrNilEndpoint = errors.New("connection endpoint is nil")
)
