// Package sandbox evaluates untrusted expression text under a hard
// wall-clock budget.
//
// Evaluation happens in a disposable child process so that a runaway
// expression (infinite loop, resource blow-up) can always be killed without
// affecting the caller. The supervisor keeps at most one worker alive,
// starts it lazily on first use, and recycles it whenever it times out or
// crashes. Worker and supervisor communicate over a pair of one-directional
// message streams (requests on stdin, responses on stdout) with no shared
// memory.
package sandbox

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// WorkerCommand is the hidden CLI argument that turns the scribe binary
// into an evaluation worker (see cmd/scribe).
const WorkerCommand = "sandbox-worker"

// ErrTimeout is returned when the worker does not answer within the budget.
// The worker is killed and discarded; the next call starts a fresh one.
var ErrTimeout = errors.New("expression evaluation timed out")

// EvalError reports that the expression itself is invalid: it failed to
// parse, failed to evaluate, or produced a value that cannot be displayed.
type EvalError struct {
	Message string
}

func (e *EvalError) Error() string {
	return e.Message
}

// request is one evaluation request sent to the worker.
type request struct {
	Expr string `json:"expr"`
}

// response is the worker's answer: exactly one of Value and Error is set.
type response struct {
	Value *string `json:"value"`
	Error *string `json:"error"`
}

// worker is one live evaluation worker.
type worker interface {
	// send writes one evaluation request.
	send(expr string) error

	// responses yields the worker's answers in request order. The channel
	// is closed when the worker exits.
	responses() <-chan response

	// kill terminates the worker and releases its resources.
	kill()
}

// Sandbox supervises a single evaluation worker.
//
// Calls are serialized: the request/response streams carry strictly one
// response per request, so only one evaluation is ever in flight.
type Sandbox struct {
	mu     sync.Mutex
	worker worker
	cache  map[string]string
	spawn  func() (worker, error)
}

// New creates a sandbox whose worker is a child process running the scribe
// binary in worker mode. The worker is not started until the first call to
// Evaluate.
func New() *Sandbox {
	return &Sandbox{
		cache: make(map[string]string),
		spawn: spawnProcess,
	}
}

// Evaluate runs the expression in the worker and waits up to timeout for
// the result. Results are memoized by exact input text, so repeated
// identical expressions skip the worker round-trip; the cache is a
// performance optimization only and holds successful results for the
// lifetime of the process.
func (s *Sandbox) Evaluate(text string, timeout time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, ok := s.cache[text]; ok {
		return value, nil
	}

	if s.worker == nil {
		w, err := s.spawn()
		if err != nil {
			return "", fmt.Errorf("failed to start sandbox worker: %w", err)
		}
		s.worker = w
	}

	if err := s.worker.send(text); err != nil {
		// The worker died between requests; discard it so the next
		// call starts fresh.
		s.discardLocked()
		return "", fmt.Errorf("sandbox worker unavailable: %w", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case resp, ok := <-s.worker.responses():
		if !ok {
			s.discardLocked()
			return "", errors.New("sandbox worker exited unexpectedly")
		}
		if resp.Error != nil {
			return "", &EvalError{Message: *resp.Error}
		}
		value := ""
		if resp.Value != nil {
			value = *resp.Value
		}
		s.cache[text] = value
		return value, nil

	case <-timer.C:
		// In-flight work in a killed worker is lost, never retried.
		log.Printf("[sandbox] worker timed out after %s, recycling", timeout)
		s.discardLocked()
		return "", ErrTimeout
	}
}

// Close terminates the worker if one is alive.
func (s *Sandbox) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discardLocked()
}

func (s *Sandbox) discardLocked() {
	if s.worker != nil {
		s.worker.kill()
		s.worker = nil
	}
}
