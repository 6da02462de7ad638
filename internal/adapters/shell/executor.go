// Package shell provides the process executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

const waitDelay = 2 * time.Second

type echoKey struct{}

// WithEcho makes processes started with ctx stream their output lines to the logger.
func WithEcho(ctx context.Context) context.Context {
	return context.WithValue(ctx, echoKey{}, true)
}

func echoEnabled(ctx context.Context) bool {
	v, _ := ctx.Value(echoKey{}).(bool)
	return v
}

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Run starts the command and captures stdout and stderr separately.
// The environment is os.Environ() overlaid with cmd.Env.
func (e *Executor) Run(ctx context.Context, cmd domain.Command) (domain.ProcessResult, error) {
	if cmd.Name == "" {
		return domain.ProcessResult{}, zerr.New("empty command")
	}

	cmdEnv := resolveEnvironment(os.Environ(), cmd.Env)

	// Resolve the executable against the command's own PATH.
	executable := cmd.Name
	if !filepath.IsAbs(cmd.Name) && !strings.Contains(cmd.Name, string(os.PathSeparator)) {
		if lp, err := lookPath(cmd.Name, cmdEnv); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // commands are assembled by the build pipeline
	if len(c.Args) > 0 {
		c.Args[0] = cmd.Name
	}
	c.Dir = cmd.Dir
	c.Env = cmdEnv
	// Grandchildren holding the pipes open must not block Wait after cancellation.
	c.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	var stdoutW, stderrW io.Writer = &stdout, &stderr
	var outLog, errLog *logWriter
	if echoEnabled(ctx) {
		outLog = &logWriter{emit: e.logger.Info}
		errLog = &logWriter{emit: e.logger.Warn}
		stdoutW = io.MultiWriter(&stdout, outLog)
		stderrW = io.MultiWriter(&stderr, errLog)
	}
	c.Stdout = stdoutW
	c.Stderr = stderrW

	runErr := c.Run()
	if outLog != nil {
		outLog.Flush()
		errLog.Flush()
	}

	res := domain.ProcessResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, zerr.With(zerr.Wrap(ctxErr, "command interrupted"), "command", cmd.String())
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		err := zerr.Wrap(runErr, "failed to start command")
		err = zerr.With(err, "command", cmd.Name)
		return res, zerr.With(err, "dir", cmd.Dir)
	}

	return res, nil
}

// logWriter forwards complete lines to emit, buffering partial writes.
type logWriter struct {
	mu   sync.Mutex
	buf  []byte
	emit func(string)
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(strings.TrimSuffix(string(w.buf[:i]), "\r"))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush emits any trailing partial line.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
}

// resolveEnvironment overlays overrides on the system environment.
// The result is sorted so child processes see a stable order.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
