package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/mirosubs/xdrpc/endpoint"
	"github.com/mirosubs/xdrpc/rpc"
	"github.com/mirosubs/xdrpc/rpc/ws"
	"github.com/tidwall/gjson"
)

// memoryBase is the --base value which dispatches to in-process Builtins.
const memoryBase = ":memory:"

// parseParams turns key=value pairs into call arguments. Values that are
// valid JSON are sent as-is, anything else as a JSON string.
func parseParams(params []string) (rpc.Args, error) {
	args := rpc.Args{}
	for _, param := range params {
		i := strings.Index(param, "=")
		if i <= 0 {
			return nil, ErrExplain{
				fmt.Errorf("invalid argument: %q", param),
				`Arguments must be given as key=value, such as video_id='"abc"' or count=3.`,
			}
		}
		key, value := param[:i], param[i+1:]
		if json.Valid([]byte(value)) {
			args[key] = json.RawMessage(value)
		} else {
			args[key] = value
		}
	}
	return args, nil
}

func newClient(ctx context.Context, options Options) (*rpc.Client, error) {
	opts := options.Call
	if opts.Base == memoryBase {
		logger.Info("Using in-process endpoint.")
		srv := &endpoint.Server{}
		if err := srv.Register("", &Builtins{Started: time.Now()}); err != nil {
			return nil, err
		}
		return rpc.New(rpc.Config{
			BaseURL:    "/",
			SameOrigin: &endpoint.Local{Server: srv},
		})
	}

	config := rpc.Config{
		BaseURL:          opts.Base,
		PageURL:          opts.Page,
		MaxContentLength: opts.MaxContentLength,
	}
	if opts.WS && rpc.SelectTransport(opts.Base, opts.Page) == rpc.CrossDomain {
		origin, err := rpc.Origin(opts.Page)
		if err != nil {
			return nil, err
		}
		base, err := resolveBase(opts.Base, opts.Page)
		if err != nil {
			return nil, err
		}
		logger.Infof("Connecting to messaging socket: %s", ws.SocketURL(base))
		m, err := ws.Dial(ctx, base, origin)
		if err != nil {
			return nil, ErrExplain{err, "Failed to open the cross-domain messaging socket. Is the endpoint serving xd/ over websockets?"}
		}
		config.CrossDomain = m
	}

	client, err := rpc.New(config)
	if errors.Is(err, rpc.ErrMissingPageURL) {
		return nil, ErrExplain{err, "A relative --base needs a --page URL to resolve against."}
	}
	return client, err
}

// resolveBase returns base as an absolute URL, resolving a relative one
// against the page.
func resolveBase(base, page string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return base, nil
	}
	if page == "" {
		return "", ErrExplain{rpc.ErrMissingPageURL, "A relative --base needs a --page URL to resolve against."}
	}
	p, err := url.Parse(page)
	if err != nil {
		return "", err
	}
	return p.ResolveReference(u).String(), nil
}

func runCall(options Options, out io.Writer) error {
	args, err := parseParams(options.Call.Args.Params)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), options.Call.Timeout)
	defer cancel()

	client, err := newClient(ctx, options)
	if err != nil {
		return err
	}
	defer client.Close()

	method := options.Call.Args.Method
	logger.Infof("Calling %s via %s: %s", method, client.Kind(), client.Endpoint(method))
	pending := client.Go(ctx, method, args, func(response interface{}) {
		logger.Debugf("%s response: %v", method, response)
	})
	if err := pending.Wait(); err != nil {
		return err
	}

	raw := []byte(pending.Raw())
	if options.Call.Select != "" {
		result := gjson.GetBytes(raw, options.Call.Select)
		if !result.Exists() {
			return ErrExplain{
				fmt.Errorf("no value at %q", options.Call.Select),
				fmt.Sprintf("The response was: %s", raw),
			}
		}
		raw = []byte(result.Raw)
	}
	_, err = fmt.Fprintf(out, "%s\n", raw)
	return err
}
