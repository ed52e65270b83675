package core

import "errors"

// Sentinel errors for the terminate-path triggers the Handler can
// raise. Mirrors the teacher's single ErrUnsupportedProtocol sentinel
// in protocol.go, generalized to the cases this spec names.
var (
	// ErrUnrecognized is raised when a body cannot be decoded into a
	// known request variant, or its tag is not one of the recognised
	// ones.
	ErrUnrecognized = errors.New("gossip: unrecognized or unparseable request")

	// ErrMissingSelf is raised when a topology map does not contain
	// this node's own identity.
	ErrMissingSelf = errors.New("gossip: topology map missing this node's identity")

	// ErrUnsupportedProtocol is raised when a broadcast arrives
	// carrying a ProtocolVersion outside the configured Gate.
	ErrUnsupportedProtocol = errors.New("gossip: peer protocol version outside accepted range")
)
