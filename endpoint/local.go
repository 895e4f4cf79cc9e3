package endpoint

import (
	"context"
	"encoding/json"

	"github.com/mirosubs/xdrpc/rpc"
)

var _ rpc.Transport = &Local{}

// Local is an rpc.Transport for a Server in the same process. It's like
// going over HTTP, but without the HTTP.
type Local struct {
	Server *Server
}

func (loc *Local) Send(ctx context.Context, req *rpc.Request) ([]byte, error) {
	args, err := rawArgs(req.Args)
	if err != nil {
		return nil, err
	}
	result, err := loc.Server.Dispatch(ctx, req.Method, args)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}
