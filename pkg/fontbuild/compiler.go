package fontbuild

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"mvdan.cc/sh/v3/shell"

	"github.com/arthur-debert/twitchmotes/pkg/errors"
	"github.com/arthur-debert/twitchmotes/pkg/logging"
	"github.com/arthur-debert/twitchmotes/pkg/registry"
)

// Environment variables exported to the compiler process
const (
	EnvManifest = "TWITCHMOTES_MANIFEST"
	EnvOutput   = "TWITCHMOTES_OUTPUT"
)

// Compiler produces the font artifact from a manifest
type Compiler interface {
	Compile(ctx context.Context, manifest registry.Manifest, manifestPath, output string) error
}

// CommandCompiler runs an external program
type CommandCompiler struct {
	args []string
}

// NewCommandCompiler splits a shell-style command line into program and
// arguments, expanding environment variables the way a POSIX shell would
func NewCommandCompiler(command string) (*CommandCompiler, error) {
	args, err := shell.Fields(command, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid font_compiler command: %s", command)
	}
	if len(args) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "font_compiler command is empty")
	}
	return &CommandCompiler{args: args}, nil
}

// Args returns the parsed command line
func (c *CommandCompiler) Args() []string {
	out := make([]string, len(c.args))
	copy(out, c.args)
	return out
}

// Compile runs the command with manifestPath and output appended
func (c *CommandCompiler) Compile(ctx context.Context, manifest registry.Manifest, manifestPath, output string) error {
	logger := logging.GetLogger("fontbuild")
	defer logging.LogOperationStart(logger, "compile_font")()

	if failed := manifest.Failed(); len(failed) > 0 {
		logger.Warn().Int("count", len(failed)).Msg("Manifest contains entries without a staged file")
	}

	args := append(c.Args()[1:], manifestPath, output)
	cmd := exec.CommandContext(ctx, c.args[0], args...)
	cmd.Env = append(os.Environ(), EnvManifest+"="+manifestPath, EnvOutput+"="+output)

	stdout := newLineLogger(logger, zerolog.DebugLevel, "stdout")
	stderr := newLineLogger(logger, zerolog.InfoLevel, "stderr")
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.Debug().Strs("command", append([]string{c.args[0]}, args...)).Msg("Running font compiler")

	err := cmd.Run()
	stdout.Flush()
	stderr.Flush()
	if err != nil {
		wrapped := errors.Wrapf(err, errors.ErrFontBuild, "font compiler %s failed", c.args[0]).
			WithDetail("output", output)
		if exitErr, ok := err.(*exec.ExitError); ok {
			wrapped.WithDetail("exit_code", exitErr.ExitCode())
		}
		if tail := stderr.Last(); tail != "" {
			wrapped.WithDetail("stderr", tail)
		}
		return wrapped
	}

	logger.Info().Str("output", output).Int("emotes", len(manifest.Emojis)).Msg("Font compiled")
	return nil
}

// NopCompiler is used when no font compiler is configured
type NopCompiler struct{}

// Compile only logs where the manifest was left
func (NopCompiler) Compile(_ context.Context, manifest registry.Manifest, manifestPath, output string) error {
	logger := logging.GetLogger("fontbuild")
	logger.Warn().
		Str("manifest", manifestPath).
		Str("output", output).
		Int("emotes", len(manifest.Emojis)).
		Msg("No font_compiler configured, skipping font build")
	return nil
}

// lineLogger forwards complete lines written by a child process to the logger
type lineLogger struct {
	mu     sync.Mutex
	logger zerolog.Logger
	level  zerolog.Level
	stream string
	buf    bytes.Buffer
	last   string
}

func newLineLogger(logger zerolog.Logger, level zerolog.Level, stream string) *lineLogger {
	return &lineLogger{logger: logger, level: level, stream: stream}
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf.Write(p)
	for {
		line, err := l.buf.ReadString('\n')
		if err != nil {
			// incomplete line, keep it for the next write
			l.buf.Reset()
			l.buf.WriteString(line)
			break
		}
		l.emit(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

// Flush logs any trailing text without a newline
func (l *lineLogger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.buf.Len() > 0 {
		l.emit(l.buf.String())
		l.buf.Reset()
	}
}

// Last returns the last non-empty line seen
func (l *lineLogger) Last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

func (l *lineLogger) emit(line string) {
	if line == "" {
		return
	}
	l.last = line
	l.logger.WithLevel(l.level).Str("stream", l.stream).Msg(line)
}
