package endpoint

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
)

func TestMethods(t *testing.T) {
	methods, err := Methods(&SubtitleService{})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Fetch", "Ping", "Languages", "Echo", "Fail"} {
		if _, ok := methods[name]; !ok {
			t.Errorf("missing method: %s", name)
		}
	}
	if _, ok := methods["Unsupported"]; ok {
		t.Error("method with positional arguments should be skipped")
	}
	if !methods["Languages"].HasCtx {
		t.Error("Languages should take a context")
	}
}

func TestMethodsUnexportedReceiver(t *testing.T) {
	type hidden struct{}
	if _, err := Methods(&hidden{}); err == nil {
		t.Error("expected error for unexported receiver")
	}
}

func TestMethodCallNamedArgs(t *testing.T) {
	methods, err := Methods(&SubtitleService{})
	if err != nil {
		t.Fatal(err)
	}
	m := methods["Fetch"]
	res, err := m.Call(context.Background(), map[string]json.RawMessage{
		"video_id": json.RawMessage(`"v1"`),
		"language": json.RawMessage(`"en"`),
		"ignored":  json.RawMessage(`[1, 2]`),
	})
	if err != nil {
		t.Fatal(err)
	}
	subs, ok := res.([]Subtitle)
	if !ok {
		t.Fatalf("invalid response type: %T", res)
	}
	if len(subs) != 1 || subs[0].Text != "v1/en" {
		t.Errorf("response mismatch: %+v", subs)
	}
}

func TestMethodCallBadArgs(t *testing.T) {
	methods, err := Methods(&SubtitleService{})
	if err != nil {
		t.Fatal(err)
	}
	m := methods["Fetch"]
	_, err = m.Call(context.Background(), map[string]json.RawMessage{
		"video_id": json.RawMessage(`42`),
	})
	if _, ok := err.(ErrInvalidArgs); !ok {
		t.Errorf("got: %T %v; want ErrInvalidArgs", err, err)
	}
}

func TestMethodCallReturnLayouts(t *testing.T) {
	methods, err := Methods(&SubtitleService{})
	if err != nil {
		t.Fatal(err)
	}
	ping := methods["Ping"]
	if res, err := ping.Call(context.Background(), nil); err != nil || res != "pong" {
		t.Errorf("got: %v, %v; want pong", res, err)
	}
	fail := methods["Fail"]
	if _, err := fail.Call(context.Background(), nil); err == nil {
		t.Error("expected error from Fail")
	}
	echo := methods["Echo"]
	res, err := echo.Call(context.Background(), map[string]json.RawMessage{"a": json.RawMessage(`1`)})
	if err != nil {
		t.Fatal(err)
	}
	if want := map[string]interface{}{"a": float64(1)}; !reflect.DeepEqual(res, want) {
		t.Errorf("got: %v; want %v", res, want)
	}
}

func TestServerMethodNames(t *testing.T) {
	srv := newTestServer()
	srv.RegisterFunc("custom_thing", func(ctx context.Context, args map[string]json.RawMessage) (interface{}, error) {
		return nil, nil
	})
	got := srv.MethodNames()
	want := []string{"custom_thing", "echo", "fail", "fetch", "languages", "ping"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got: %q; want %q", got, want)
	}
}
