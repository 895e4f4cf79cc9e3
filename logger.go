package main

import (
	"io"
	"io/ioutil"

	"github.com/alexcesaro/log"
	"github.com/alexcesaro/log/golog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *golog.Logger

// SetLogger overrides the main logger of this command.
func SetLogger(l *golog.Logger) {
	logger = l
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// openLogWriter returns where logs go: stderr, or a rotated file when path is
// set. Closing it leaves stderr open.
func openLogWriter(stderr io.Writer, path string) io.WriteCloser {
	if path == "" {
		return nopCloser{stderr}
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}
}

func init() {
	// Set a default null logger
	SetLogger(golog.New(ioutil.Discard, log.Debug))
}
