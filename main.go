package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/alexcesaro/log"
	"github.com/alexcesaro/log/golog"
	flags "github.com/jessevdk/go-flags"
	"github.com/mirosubs/xdrpc/endpoint"
	"github.com/mirosubs/xdrpc/rpc"
	"github.com/mirosubs/xdrpc/rpc/ws"
)

// Version of the binary, assigned during build.
var Version string = "dev"

// Options contains the flag options
type Options struct {
	Verbose []bool `short:"v" long:"verbose" description:"Show verbose logging."`
	Version bool   `long:"version" description:"Print version and exit."`
	LogFile string `long:"logfile" description:"Write logs to a rotated file instead of stderr."`

	Call struct {
		Args struct {
			Method string   `positional-arg-name:"method" description:"RPC method name" required:"yes"`
			Params []string `positional-arg-name:"key=value" description:"Named arguments; values are JSON, or sent as strings otherwise"`
		} `positional-args:"yes"`
		Base             string        `long:"base" description:"Base URL of the RPC endpoint, ending with a slash. Use :memory: for an in-process endpoint." default:"http://localhost:8080/"`
		Page             string        `long:"page" description:"URL of the calling page. Calls go over xhr/ when its origin matches the base URL, over xd/ otherwise."`
		WS               bool          `long:"ws" description:"Send cross-domain calls over the xd/ messaging socket."`
		Timeout          time.Duration `long:"timeout" description:"Give up on the call after this long." default:"10s"`
		Select           string        `long:"select" description:"Print only the value at this path of the response (such as results.0.title)."`
		MaxContentLength int64         `long:"max-content-length" description:"Response size limit in bytes (0 is unlimited)."`
	} `command:"call" description:"Call an RPC method."`

	Serve struct {
		Bind             string   `long:"bind" description:"Address and port to listen on." default:"127.0.0.1:8080"`
		AllowOrigin      []string `long:"allow-origin" description:"Page origin allowed to make cross-domain calls (repeatable, default any)."`
		MaxContentLength int64    `long:"max-content-length" description:"Request size limit in bytes." default:"1048576"`
	} `command:"serve" description:"Serve the built-in methods over xhr/ and xd/."`
}

const callUsage = `Examples:
* Same-origin call, POSTed as a form to http://localhost:8080/xhr/echo:
  $ xdrpc call --page http://localhost:8080/ echo title='"Hello"' count=3

* Cross-domain call from a page on another origin, POSTed to .../xd/ping:
  $ xdrpc call --base http://localhost:8080/ --page https://www.example.com/ ping

* In-process call, no server needed:
  $ xdrpc call --base :memory: status --select uptime
`

var logLevels = []log.Level{
	log.Warning,
	log.Info,
	log.Debug,
}

func subcommand(cmd string, options Options) error {
	switch cmd {
	case "call":
		return runCall(options, os.Stdout)
	case "serve":
		return runServe(options)
	}
	return nil
}

// newParser returns the command line parser for options.
func newParser(options *Options) *flags.Parser {
	parser := flags.NewParser(options, flags.Default)
	parser.SubcommandsOptional = true
	return parser
}

func main() {
	options := Options{}
	parser := newParser(&options)
	if err := loadConfig(parser, findConfig()); err != nil {
		exit(1, "failed to load config: %s\n", err)
	}
	p, err := parser.Parse()
	if err != nil {
		if p == nil {
			fmt.Println(err)
		}
		if flagErr, ok := err.(*flags.Error); ok && flagErr.Type == flags.ErrHelp && parser.Active != nil {
			// Print additional usage help when run with --help
			switch parser.Active.Name {
			case "call":
				exit(0, callUsage)
			}
		}
		return
	}

	if options.Version {
		fmt.Println(Version)
		os.Exit(0)
	}

	if parser.Active == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	// Figure out the log level
	numVerbose := len(options.Verbose)
	if numVerbose >= len(logLevels) {
		numVerbose = len(logLevels) - 1
	}

	logLevel := logLevels[numVerbose]
	logWriter := openLogWriter(os.Stderr, options.LogFile)

	SetLogger(golog.New(logWriter, logLevel))
	if logLevel == log.Debug {
		// Enable logging from subpackages
		rpc.SetLogger(logWriter)
		ws.SetLogger(logWriter)
		endpoint.SetLogger(logWriter)
	}

	cmd := parser.Active.Name
	err = subcommand(cmd, options)
	logWriter.Close()
	if err == nil {
		return
	}

	if err == io.EOF {
		exit(3, "Connection closed.\n")
	}

	err = explain(err)
	exit(2, "%s failed: %s\n", cmd, err)
}

// explain annotates known errors with a hint for the user.
func explain(err error) error {
	var httpErr rpc.HTTPRequestError
	var remoteErr ws.ErrRemote
	var parseErr rpc.ParseError
	var netErr net.Error
	var explained ErrExplain
	switch {
	case errors.As(err, &explained):
		// All good.
	case errors.Is(err, context.DeadlineExceeded):
		err = ErrExplain{err, `The endpoint did not answer in time. Try a longer --timeout?`}
	case errors.Is(err, rpc.ErrCrossOriginDenied):
		err = ErrExplain{err, `The endpoint does not allow calls from the --page origin. Check its --allow-origin setting.`}
	case errors.As(err, &httpErr):
		switch httpErr.StatusCode() {
		case 404:
			err = ErrExplain{err, `Unknown method, or the --base URL does not point at an RPC endpoint.`}
		default:
			err = ErrExplain{err, fmt.Sprintf(`The endpoint answered with status %d.`, httpErr.StatusCode())}
		}
	case errors.As(err, &remoteErr):
		err = ErrExplain{err, `The endpoint rejected the call.`}
	case errors.As(err, &parseErr):
		err = ErrExplain{err, `The endpoint did not answer with JSON. Is --base correct?`}
	case errors.As(err, &netErr):
		err = ErrExplain{err, `Could not reach the endpoint. Could be a connectivity issue or the server is down. Try again?`}
	default:
		err = ErrExplain{err, fmt.Sprintf(`Error type %T is missing an explanation.`, err)}
	}
	return err
}

func exit(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}

// ErrExplain annotates an error with an explanation.
type ErrExplain struct {
	Cause       error
	Explanation string
}

func (err ErrExplain) Error() string {
	return fmt.Sprintf("%s\n -> %s", err.Cause, err.Explanation)
}

func (err ErrExplain) Unwrap() error {
	return err.Cause
}
