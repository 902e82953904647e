package pipeline

import "errors"

var (
	// ErrDuplicateName means two middlewares were registered under one name.
	ErrDuplicateName = errors.New("middleware name already registered")

	// ErrUnknownMiddleware means a pipeline references a name the registry
	// does not know. Surfaced at route construction, before any request.
	ErrUnknownMiddleware = errors.New("unknown middleware")

	// ErrFrozen means a registration arrived after the registry was frozen.
	ErrFrozen = errors.New("registry is frozen")
)
