// Package relay spawns the wrapped workload process: standard error is
// merged into standard output, output is relayed line by line as it
// arrives, and the child's exit code becomes the caller's. Termination
// signals are forwarded so the workload can shut down cleanly inside a
// container.
package relay

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/logging"
)

// Run executes args as the wrapped command and relays its combined
// output to out. It blocks until the child exits and returns the
// child's exit code. An empty args list is a no-op returning 0.
func Run(ctx context.Context, args []string, out io.Writer) (int, error) {
	logger := logging.GetLogger("relay")

	if len(args) == 0 {
		logger.Debug().Msg("No wrapped command given")
		return 0, nil
	}

	logging.LogCommand(args[0], args[1:])

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = os.Stdin

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return -1, errors.Wrap(err, errors.ErrExecFailed, "failed to open output pipe")
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return -1, errors.Wrapf(err, errors.ErrExecFailed, "failed to start %s", args[0])
	}

	// Forward termination signals to the child for the lifetime of the
	// relay.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-signals:
				logger.Debug().Str("signal", sig.String()).Msg("Forwarding signal")
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	// A Reader loop rather than a Scanner: lines of arbitrary length
	// must be relayed, and the relay must keep draining the pipe until
	// the child exits or Wait would block forever.
	reader := bufio.NewReader(pipe)
	for {
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			fmt.Fprint(out, line)
		}
		if readErr != nil {
			break
		}
	}

	err = cmd.Wait()
	close(done)

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, errors.Wrapf(err, errors.ErrExecFailed, "wrapped command %s failed", args[0])
	}

	return 0, nil
}
