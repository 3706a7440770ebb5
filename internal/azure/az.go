package azure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rshade/azimage/internal/logging"
)

// defaultBinary is the az executable looked up in PATH.
const defaultBinary = "az"

// CommandRunner executes an external command and returns its stdout, stderr, and error.
// This interface enables testing without spawning real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// execRunner is the default CommandRunner that uses exec.CommandContext.
type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Runner is the package-level CommandRunner used by clients built without
// WithRunner.
var Runner CommandRunner = &execRunner{} //nolint:gochecknoglobals // Required for test injection

// Client runs az commands. The zero value is not usable; use NewClient.
type Client struct {
	binary  string
	timeout time.Duration
	runner  CommandRunner
}

// Option configures a Client.
type Option func(*Client)

// WithBinary sets the az executable name or path.
func WithBinary(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.binary = path
		}
	}
}

// WithTimeout bounds every az invocation. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRunner replaces the command runner.
func WithRunner(r CommandRunner) Option {
	return func(c *Client) { c.runner = r }
}

// NewClient returns a Client using the package Runner and the az binary in PATH.
func NewClient(opts ...Option) *Client {
	c := &Client{binary: defaultBinary, runner: Runner}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindBinary locates the az CLI binary.
// Returns the full path to the binary or ErrAzNotFound if not found.
func (c *Client) FindBinary() (string, error) {
	path, err := exec.LookPath(c.binary)
	if err != nil {
		return "", ErrAzNotFound
	}
	return path, nil
}

// azCmdConfig holds the configuration for running one az command.
type azCmdConfig struct {
	args       []string
	operation  string
	logMessage string
	wrapErr    func(string) error
}

// run executes an az command with the JSON output format, timeout and logging.
func (c *Client) run(ctx context.Context, cfg azCmdConfig) ([]byte, error) {
	log := logging.FromContext(ctx)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := append(append([]string{}, cfg.args...), "--output", "json")

	log.Debug().
		Ctx(ctx).
		Str("component", "azure").
		Str("operation", cfg.operation).
		Strs("args", args).
		Msg(cfg.logMessage)

	start := time.Now()
	stdout, stderr, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("az %s timed out: %w", cfg.operation, ctx.Err())
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrAzNotFound
		}
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			msg = err.Error()
		}
		log.Debug().
			Ctx(ctx).
			Str("component", "azure").
			Str("operation", cfg.operation).
			Str("stderr", msg).
			Msg("az command failed")
		return nil, cfg.wrapErr(msg)
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "azure").
		Int("output_bytes", len(stdout)).
		Dur("elapsed", time.Since(start)).
		Msgf("az %s completed", cfg.operation)

	return stdout, nil
}

// commandErrorFor returns a wrapErr func producing CommandError for operation.
func commandErrorFor(operation string) func(string) error {
	return func(stderr string) error {
		return CommandError(operation, stderr)
	}
}
