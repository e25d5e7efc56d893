package entity

import "errors"

var (
	ErrMissingFields         = errors.New("Missing required fields: from, to, value, network")
	ErrMissingAddress        = errors.New("Wallet address is required")
	ErrUnsupportedNetwork    = errors.New("unsupported network")
	ErrInvalidAddress        = errors.New("invalid address")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrMissingCredentials    = errors.New("missing API key")
	ErrSimulationUnavailable = errors.New("simulation endpoint unavailable")
)
