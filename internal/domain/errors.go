package domain

import "errors"

var (
	ErrNoAgentsAvailable = errors.New("no agents available")
	ErrAgentNotFound     = errors.New("agent not found")
	ErrUnknownAction     = errors.New("unknown agent action")
)
