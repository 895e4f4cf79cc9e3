package main

import (
	"os"

	"github.com/OpenPeeDeeP/xdg"
	flags "github.com/jessevdk/go-flags"
)

const configEnv = "XDRPC_CONFIG"

// findConfig returns the INI file holding option defaults, or "" if there
// is none. $XDRPC_CONFIG wins over the XDG config dirs.
func findConfig() string {
	if path := os.Getenv(configEnv); path != "" {
		return path
	}
	return xdg.New("mirosubs", "xdrpc").QueryConfig("xdrpc.ini")
}

// loadConfig applies option defaults from an INI file. Sections are named
// after subcommands, keys after long flag names:
//
//	[call]
//	base = https://www.example.com/rpc/
//	page = https://www.example.com/
//
// Command line flags parsed afterwards take precedence.
func loadConfig(parser *flags.Parser, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && os.Getenv(configEnv) == "" {
		return nil
	}
	return flags.NewIniParser(parser).ParseFile(path)
}
