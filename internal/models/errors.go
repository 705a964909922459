package models

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrNotFound = status.Errorf(codes.NotFound, "not found")

	ErrInvalidMode         = errors.New("invalid mode")
	ErrAgentNotProvisioned = errors.New("agent not provisioned")
	ErrLLMNotProvisioned   = errors.New("llm not provisioned")
	ErrCallNotActive       = errors.New("call not active")
)
