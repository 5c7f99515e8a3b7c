package topology

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/wesleyorama2/membench/internal/gate"
)

// ReadyFD is the descriptor on which a worker process reports readiness.
const ReadyFD = 3

// NotifyReady is called by a worker process once it is primed.
func NotifyReady() error {
	f := os.NewFile(ReadyFD, "ready")
	if f == nil {
		return errors.New("readiness descriptor is not open")
	}
	defer f.Close()

	if _, err := f.Write([]byte("ready\n")); err != nil {
		return fmt.Errorf("failed to report readiness: %w", err)
	}
	return nil
}

// ProcessLauncher re-executes a binary once per worker. The worker reads
// its payload from stdin, writes a line to ReadyFD once primed, waits for
// gate.TriggerSignal and prints its report on stdout.
type ProcessLauncher struct {
	// Path is the executable; empty means the running binary.
	Path string
	// Args are passed to the executable, e.g. the worker subcommand.
	Args []string
	// Payload encodes what the worker needs to run spec.
	Payload func(spec WorkerSpec) ([]byte, error)
	// Stderr receives the workers' logs.
	Stderr io.Writer
}

// Launch starts a worker process, applying spec.Placement to the process
// before it runs any code.
func (l *ProcessLauncher) Launch(ctx context.Context, spec WorkerSpec) (Handle, error) {
	path := l.Path
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate executable: %w", err)
		}
		path = exe
	}

	var payload []byte
	if l.Payload != nil {
		p, err := l.Payload(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to encode worker payload: %w", err)
		}
		payload = p
	}

	readyR, readyW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create readiness pipe: %w", err)
	}

	cmd := exec.Command(path, l.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	h := &processHandle{
		cmd:   cmd,
		ready: make(chan struct{}),
		done:  make(chan struct{}),
	}
	cmd.Stdout = &h.stdout
	cmd.Stderr = l.Stderr
	cmd.ExtraFiles = []*os.File{readyW}

	err = withPlacement(spec.Placement, cmd.Start)
	readyW.Close()
	if err != nil {
		readyR.Close()
		return nil, fmt.Errorf("failed to start worker process: %w", err)
	}

	go h.watchReady(readyR)
	go h.reap()
	go func() {
		select {
		case <-ctx.Done():
			h.Stop()
		case <-h.done:
		}
	}()
	return h, nil
}

type processHandle struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer

	ready chan struct{}
	done  chan struct{}
	err   error
}

func (h *processHandle) watchReady(r *os.File) {
	defer r.Close()
	buf := make([]byte, 16)
	n, _ := r.Read(buf)
	if n > 0 {
		close(h.ready)
	}
}

func (h *processHandle) reap() {
	if err := h.cmd.Wait(); err != nil {
		h.err = err
	}
	close(h.done)
}

func (h *processHandle) PID() int {
	return h.cmd.Process.Pid
}

func (h *processHandle) Ready() <-chan struct{} {
	return h.ready
}

func (h *processHandle) Done() <-chan struct{} {
	return h.done
}

func (h *processHandle) Release() error {
	select {
	case <-h.done:
		return errors.New("worker already exited")
	default:
	}
	return h.cmd.Process.Signal(gate.TriggerSignal)
}

func (h *processHandle) Stop() {
	select {
	case <-h.done:
	default:
		_ = h.cmd.Process.Kill()
	}
}

func (h *processHandle) Wait() ([]byte, error) {
	<-h.done
	if h.err != nil {
		return nil, h.err
	}
	return bytes.TrimSpace(h.stdout.Bytes()), nil
}
