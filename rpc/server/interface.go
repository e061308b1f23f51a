package server

import (
	"github.com/trybenon/peopled/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for handling requests and responses
type IRPCServerAdapter interface {
	// Handle handles a request and returns a response
	// It never panics and never returns nil: every failure is expressed as
	// an ERROR response carrying the request's correlation id and tag
	Handle(req *common.Message) (resp *common.Message)
}
