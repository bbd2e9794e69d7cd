package fleet

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/stakeworks/fleet/src/common"
)

// CommandFunc builds the command to run against one host.
type CommandFunc func(Host) (string, error)

// Result is the outcome of one host's command.
type Result struct {
	Host   Host
	Output []byte
	Err    error
}

// Executor fans a dispatched command out to every host concurrently. Each
// host gets its own goroutine; results come back over a channel and are
// joined before exit-status aggregation. One host blocking or failing never
// affects its siblings.
type Executor struct {
	Logger *logrus.Logger

	// Hint, when set, is logged for each host on completion so an operator
	// can re-attach without re-running the whole batch.
	Hint func(Host) string

	// Interactive wires the local terminal through to the remote command
	// instead of capturing output. Only meaningful for a single host.
	Interactive bool
}

// Run invokes the command once per host. The returned slice is ordered by
// host position regardless of completion order.
func (e *Executor) Run(build CommandFunc, hosts []Host) []Result {
	wg := sync.WaitGroup{}
	resultCh := make(chan Result, len(hosts))

	for _, host := range hosts {
		wg.Add(1)

		go func(h Host) {
			defer wg.Done()
			resultCh <- e.runHost(build, h)
		}(host)
	}

	wg.Wait()
	close(resultCh)

	results := make([]Result, len(hosts))
	for res := range resultCh {
		results[res.Host.Position-1] = res
	}

	return results
}

func (e *Executor) runHost(build CommandFunc, h Host) Result {
	entry := e.Logger.WithField("prefix", h.Address)

	cmdStr, err := build(h)
	if err != nil {
		return Result{Host: h, Err: err}
	}

	entry.Debug(cmdStr)

	cmd := exec.Command("sh", "-c", cmdStr)

	var output bytes.Buffer

	if e.Interactive {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		err = cmd.Run()
	} else {
		err = e.stream(cmd, entry, &output)
	}

	if err != nil {
		entry.WithField("error", err).Error("Command failed")
		err = common.NewFleetErr(common.RemoteExecution,
			fmt.Sprintf("%s: %v", h.Address, err))
	}

	if e.Hint != nil {
		entry.Infof("re-attach: %s", e.Hint(h))
	}

	return Result{Host: h, Output: output.Bytes(), Err: err}
}

// stream runs the command, forwarding stdout and stderr line by line through
// the host's log entry while keeping a copy of stdout for the caller.
func (e *Executor) stream(cmd *exec.Cmd, entry *logrus.Entry, output *bytes.Buffer) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	wg := sync.WaitGroup{}
	wg.Add(2)

	go func() {
		defer wg.Done()
		drain(stdout, entry.Info, output)
	}()

	go func() {
		defer wg.Done()
		drain(stderr, entry.Warn, nil)
	}()

	wg.Wait()

	return cmd.Wait()
}

func drain(r io.Reader, log func(...interface{}), output *bytes.Buffer) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		log(line)
		if output != nil {
			output.WriteString(line)
			output.WriteByte('\n')
		}
	}
}

// ExitCode aggregates per-host results into the process exit status. Any
// failed host makes the whole invocation fail without obscuring which hosts
// succeeded.
func ExitCode(results []Result) int {
	for _, res := range results {
		if res.Err != nil {
			return 1
		}
	}
	return 0
}
