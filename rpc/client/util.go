package client

import (
	"fmt"
	"sync/atomic"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/trybenon/peopled/rpc/common"
	"github.com/trybenon/peopled/rpc/serializer"
	"github.com/trybenon/peopled/rpc/transport"
	"github.com/trybenon/peopled/rpc/transport/base"
)

var (
	Logger = logger.GetLogger("session")
)

// MessageIDExtractor adapts a serializer into the id-extraction hook the
// transport layer needs to correlate responses with requests.
func MessageIDExtractor(s serializer.IRPCSerializer) base.ExtractIDFunc {
	return func(resp []byte) (uint64, error) {
		var msg common.Message
		if err := s.Deserialize(resp, &msg); err != nil {
			return 0, err
		}
		return msg.ID, nil
	}
}

// rpcClientAdapter stores all data needed for an RPC client implementation.
// Used by the Session via composition.
type rpcClientAdapter struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
	nextID     atomic.Uint64
}

// invokeRPCRequest sends one request and returns the decoded response.
// It stamps the request with a fresh correlation id, verifies that the
// response mirrors the request's id and tag, and converts ERROR responses
// into Go errors.
func (a *rpcClientAdapter) invokeRPCRequest(req *common.Message) (*common.Message, error) {
	// Stamp the correlation id
	req.ID = a.nextID.Add(1)

	// Serialize the request
	reqBytes, err := a.serializer.Serialize(*req)
	if err != nil {
		return nil, err
	}

	// Send the request
	respBytes, err := a.transport.Send(req.ID, reqBytes)
	if err != nil {
		return nil, err
	}

	// Deserialize the response
	resp := &common.Message{}
	if err := a.serializer.Deserialize(respBytes, resp); err != nil {
		return nil, fmt.Errorf("malformed response: %s", err)
	}

	// The response must answer this request
	if resp.ID != req.ID {
		return nil, fmt.Errorf("response id %d does not match request id %d", resp.ID, req.ID)
	}
	if resp.Cmd != req.Cmd {
		return nil, fmt.Errorf("response tag %s does not match request tag %s", resp.Cmd, req.Cmd)
	}

	// Convert server-side failures
	if resp.Status == common.StatusError {
		return nil, &ServerError{Text: resp.Text}
	}

	return resp, nil
}

// ServerError is an ERROR response converted into a Go error. It lets
// callers tell a command the server rejected apart from a transport failure.
type ServerError struct {
	Text string
}

func (e *ServerError) Error() string {
	return e.Text
}
