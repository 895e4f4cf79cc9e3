package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

var typeOfError = reflect.TypeOf((*error)(nil)).Elem()
var typeOfContext = reflect.TypeOf((*context.Context)(nil)).Elem()

// methodArgType returns the type named arguments are decoded into (nil if the
// method takes none), and whether the signature is supported: an optional
// leading context.Context followed by at most one exported struct or
// string-keyed map.
func methodArgType(methodType reflect.Type) (argType reflect.Type, hasCtx bool, ok bool) {
	for argPos := 1; argPos < methodType.NumIn(); argPos++ { // Skip receiver
		t := methodType.In(argPos)
		if t == typeOfContext && argPos == 1 {
			hasCtx = true
			continue
		}
		if argType != nil || !isExportedOrBuiltin(t) {
			return nil, hasCtx, false
		}
		elem := t
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		switch {
		case elem.Kind() == reflect.Struct:
		case elem.Kind() == reflect.Map && elem.Key().Kind() == reflect.String:
		default:
			return nil, hasCtx, false
		}
		argType = t
	}
	return argType, hasCtx, true
}

// methodErrPos returns the return value index position of an error type for
// supported return layouts: (), (interface{}), (error), (interface{}, error)
func methodErrPos(methodType reflect.Type) (int, bool) {
	switch methodType.NumOut() {
	case 0:
		return -1, true
	case 1:
		if methodType.Out(0) == typeOfError {
			// Single error return value
			return 0, true
		}
		// Single non-error return value
		return -1, true
	case 2:
		if methodType.Out(1) == typeOfError {
			return 1, true
		}
	}
	return -1, false
}

// Methods returns a mapping of valid method names to Method definitions for
// a receiver. Methods with unsupported arguments are skipped.
func Methods(receiver interface{}) (map[string]Method, error) {
	kind := reflect.TypeOf(receiver)
	val := reflect.ValueOf(receiver)
	if name := reflect.Indirect(val).Type().Name(); !isExported(name) {
		return nil, fmt.Errorf("receiver must be exported: %s", name)
	}

	methods := map[string]Method{}
	for i := 0; i < kind.NumMethod(); i++ {
		method := kind.Method(i)
		if method.PkgPath != "" {
			continue
		}
		argType, hasCtx, ok := methodArgType(method.Type)
		if !ok {
			logger.Printf("Methods(): skipping %s, unsupported arguments", method.Name)
			continue
		}
		errPos, ok := methodErrPos(method.Type)
		if !ok {
			return nil, fmt.Errorf("unsupported return values in method: %s", method.Name)
		}
		methods[method.Name] = Method{
			Receiver: val,
			Method:   method,
			ArgType:  argType,
			ErrPos:   errPos,
			HasCtx:   hasCtx,
		}
	}
	return methods, nil
}

// Method is the definition of a callable method.
type Method struct {
	Receiver reflect.Value
	Method   reflect.Method
	ArgType  reflect.Type
	ErrPos   int
	HasCtx   bool
}

// decodeArgs builds the method's argument from named JSON values.
func (m *Method) decodeArgs(args map[string]json.RawMessage) (reflect.Value, error) {
	obj, err := json.Marshal(args)
	if err != nil {
		return reflect.Value{}, ErrInvalidArgs{Cause: err}
	}
	elem := m.ArgType
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	ptr := reflect.New(elem)
	if err := json.Unmarshal(obj, ptr.Interface()); err != nil {
		return reflect.Value{}, ErrInvalidArgs{Cause: err}
	}
	if m.ArgType.Kind() == reflect.Ptr {
		return ptr, nil
	}
	return ptr.Elem(), nil
}

// Call executes the method with the given named arguments. Arguments are
// ignored by methods which take none.
func (m *Method) Call(ctx context.Context, args map[string]json.RawMessage) (interface{}, error) {
	arguments := []reflect.Value{m.Receiver}
	if m.HasCtx {
		arguments = append(arguments, reflect.ValueOf(ctx))
	}
	if m.ArgType != nil {
		arg, err := m.decodeArgs(args)
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, arg)
	}

	reply := m.Method.Func.Call(arguments)

	if len(reply) == 0 {
		return nil, nil
	}
	if m.ErrPos >= 0 && !reply[m.ErrPos].IsNil() {
		return nil, reply[m.ErrPos].Interface().(error)
	}
	if m.ErrPos == 0 {
		return nil, nil
	}
	return reply[0].Interface(), nil
}

// Func wraps the method as a HandlerFunc.
func (m Method) Func() HandlerFunc {
	return m.Call
}
