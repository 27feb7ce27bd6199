package common

import (
	"context"
	"strings"
)

// FilePlaceholder is replaced with the quoted path of the file to format
const FilePlaceholder = "{file}"

// Formatter runs an external code formatter in place on written files
type Formatter struct {
	shell    *ShellExecutor
	template string
}

// NewFormatter creates a formatter for the command template. An empty template
// yields a formatter that does nothing.
func NewFormatter(shell *ShellExecutor, template string) *Formatter {
	return &Formatter{shell: shell, template: strings.TrimSpace(template)}
}

// Command returns the shell command that formats path
func (f *Formatter) Command(path string) string {
	quoted := shellQuote(path)
	if strings.Contains(f.template, FilePlaceholder) {
		return strings.ReplaceAll(f.template, FilePlaceholder, quoted)
	}
	return f.template + " " + quoted
}

// Format formats path. A failing formatter leaves the file as written and is
// reported as a warning; it returns nil when nothing ran.
func (f *Formatter) Format(ctx context.Context, path string) *ShellResult {
	if f == nil || f.template == "" {
		return nil
	}
	res := f.shell.ExecuteCommand(ctx, f.Command(path), "")
	if !res.Success {
		f.shell.logger.Warnf("formatter failed for %s, keeping unformatted output", path)
	}
	return res
}

// shellQuote wraps s in single quotes for sh
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
