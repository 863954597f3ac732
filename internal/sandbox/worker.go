package sandbox

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// procWorker is a worker backed by a child process running the scribe
// binary in worker mode. Requests go out as newline-delimited JSON on the
// child's stdin; responses come back the same way on its stdout.
type procWorker struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	enc   *json.Encoder
	resps chan response
}

// spawnProcess starts a new worker process.
func spawnProcess() (worker, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("cannot locate scribe binary: %w", err)
	}

	cmd := exec.Command(exe, WorkerCommand)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("cannot start sandbox worker: %w", err)
	}

	w := &procWorker{
		cmd:   cmd,
		stdin: stdin,
		enc:   json.NewEncoder(stdin),
		// The protocol is strictly one response per request, so capacity 1
		// lets the read loop drain a final response and exit even when the
		// supervisor has already abandoned this worker.
		resps: make(chan response, 1),
	}
	go w.readLoop(stdout)

	return w, nil
}

func (w *procWorker) send(expr string) error {
	return w.enc.Encode(request{Expr: expr})
}

func (w *procWorker) responses() <-chan response {
	return w.resps
}

// readLoop decodes responses from the worker's stdout until the stream
// ends, then closes the response channel so a blocked Evaluate call
// observes the worker's death.
func (w *procWorker) readLoop(stdout io.Reader) {
	dec := json.NewDecoder(stdout)
	for {
		var resp response
		if err := dec.Decode(&resp); err != nil {
			close(w.resps)
			return
		}
		w.resps <- resp
	}
}

func (w *procWorker) kill() {
	w.stdin.Close()
	if w.cmd.Process != nil {
		w.cmd.Process.Kill()
	}
	// Reap the child without blocking the caller.
	go w.cmd.Wait()
}
