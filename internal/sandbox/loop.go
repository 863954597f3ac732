package sandbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Serve runs the worker side of the sandbox: it reads one request at a
// time from r, evaluates it, and writes exactly one response to w,
// preserving strict one-request/one-response ordering. It returns when the
// request stream ends.
//
// Serve is called from a dedicated child process; the process boundary is
// the isolation guarantee, so a hung evaluation only ever costs the worker
// its life.
func Serve(r io.Reader, w io.Writer) error {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("failed to load interpreter symbols: %w", err)
	}

	dec := json.NewDecoder(r)
	enc := json.NewEncoder(w)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := enc.Encode(evaluate(i, req.Expr)); err != nil {
			return err
		}
	}
}

// evaluate runs one expression and produces its response. Evaluation
// panics are converted to error responses so the loop keeps serving.
func evaluate(i *interp.Interpreter, expr string) (resp response) {
	defer func() {
		if r := recover(); r != nil {
			message := fmt.Sprintf("could not evaluate expression: %v", r)
			resp = response{Error: &message}
		}
	}()

	value, err := i.Eval(expr)
	if err != nil {
		message := err.Error()
		if message == "" {
			message = "could not evaluate expression"
		}
		return response{Error: &message}
	}

	text, err := format(value)
	if err != nil {
		message := err.Error()
		return response{Error: &message}
	}

	return response{Value: &text}
}

// format converts an evaluation result into display text. Results that are
// not representable as finite text are rejected as errors rather than
// values.
func format(value reflect.Value) (string, error) {
	if !value.IsValid() {
		return "", errors.New("expression evaluates to nothing")
	}

	if value.Kind() == reflect.Func {
		return "", errors.New("expression returned a callback")
	}

	var text string
	switch value.Kind() {
	case reflect.String:
		text = value.String()
	case reflect.Slice, reflect.Array:
		parts := make([]string, value.Len())
		for i := 0; i < value.Len(); i++ {
			parts[i] = fmt.Sprint(value.Index(i).Interface())
		}
		text = strings.Join(parts, ", ")
	default:
		text = fmt.Sprint(value.Interface())
	}

	if strings.TrimSpace(text) == "" {
		return "", errors.New("expression evaluates to nothing")
	}

	return text, nil
}
