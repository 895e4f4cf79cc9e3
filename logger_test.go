package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenLogWriter(t *testing.T) {
	var stderr bytes.Buffer
	w := openLogWriter(&stderr, "")
	fmt.Fprint(w, "hello")
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(&stderr, " again")
	if got, want := stderr.String(), "hello again"; got != want {
		t.Errorf("got: %q; want %q", got, want)
	}

	path := filepath.Join(t.TempDir(), "xdrpc.log")
	w = openLogWriter(&stderr, path)
	fmt.Fprintln(w, "to file")
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file: got: %q", data)
	}
	if got, want := stderr.String(), "hello again"; got != want {
		t.Errorf("file logs leaked to stderr: %q", got)
	}
}
