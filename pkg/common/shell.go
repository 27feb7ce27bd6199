package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/alantheprice/codebaseai/pkg/utils"
)

// Exit statuses with a dedicated warning
const (
	ExitInvalidArgument = 3
	ExitTimeout         = 30
)

// ShellExecutor runs external commands through sh -c
type ShellExecutor struct {
	logger  *utils.Logger
	timeout time.Duration
}

// NewShellExecutor creates a new shell executor. A zero timeout means no limit
// beyond the caller's context.
func NewShellExecutor(logger *utils.Logger, timeout time.Duration) *ShellExecutor {
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &ShellExecutor{
		logger:  logger,
		timeout: timeout,
	}
}

// ShellResult contains the result of a shell command execution
type ShellResult struct {
	Command    string
	Output     string
	OutputFile string
	Error      error
	ExitCode   int
	Duration   time.Duration
	Success    bool
}

// ExecuteCommand executes a single shell command. When outputFile is set,
// stdout and stderr are written to it instead of being captured in Output.
// Failures are logged and reported in the result, never returned.
func (se *ShellExecutor) ExecuteCommand(ctx context.Context, command, outputFile string) *ShellResult {
	startTime := time.Now()
	result := &ShellResult{Command: command, OutputFile: outputFile}

	se.logger.Debugf("Executing command: %s", command)

	execCtx := ctx
	if se.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, se.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)

	var err error
	if outputFile != "" {
		f, ferr := os.Create(outputFile)
		if ferr != nil {
			result.Error = fmt.Errorf("create output file: %w", ferr)
			result.ExitCode = -1
			result.Duration = time.Since(startTime)
			se.logger.Errorf("Error while running command: %s\n%v", command, result.Error)
			return result
		}
		cmd.Stdout = f
		cmd.Stderr = f
		err = cmd.Run()
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	} else {
		var out []byte
		out, err = cmd.CombinedOutput()
		result.Output = string(out)
	}

	result.Duration = time.Since(startTime)
	result.Error = err
	result.Success = err == nil

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}

	se.logResult(result)
	return result
}

func (se *ShellExecutor) logResult(r *ShellResult) {
	switch {
	case r.Success && r.OutputFile != "":
		se.logger.Logf("Output file generated: %s", r.OutputFile)
	case r.Success:
		se.logger.Debugf("Command completed successfully in %v", r.Duration)
	case r.ExitCode == ExitInvalidArgument:
		se.logger.Warnf("Warning: Command '%s' failed with exit status 3 (Invalid argument).", r.Command)
	case r.ExitCode == ExitTimeout:
		se.logger.Warnf("Warning: Command '%s' failed with exit status 30 (Timeout).", r.Command)
	default:
		se.logger.Errorf("Error while running command: %s\n%v", r.Command, r.Error)
	}
}
