package prompts

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// InputPlaceholder is substituted with the text being processed.
const InputPlaceholder = "{input}"

// DefaultInstructionFile is the instruction path used when none is given.
const DefaultInstructionFile = "./refactoring_prompt.txt"

//go:embed refactoring_prompt.txt
var defaultInstruction string

// methodTemplate follows the caller-supplied instruction in every refactor
// prompt.
const methodTemplate = `

Method:
` + "`" + InputPlaceholder + "`" + `
`

// BuildRefactorPrompt appends the method template to instruction.
func BuildRefactorPrompt(instruction string) string {
	return instruction + methodTemplate
}

// RenderPrompt substitutes input for every {input} placeholder in template.
// A template without a placeholder gets the input appended on its own line.
func RenderPrompt(template, input string) string {
	if !strings.Contains(template, InputPlaceholder) {
		return template + "\n" + input
	}
	return strings.ReplaceAll(template, InputPlaceholder, input)
}

// DefaultInstruction returns the built-in refactoring instruction.
func DefaultInstruction() string {
	return defaultInstruction
}

// LoadInstruction reads the refactoring instruction from path. When path is
// the default location and no file exists there, the built-in instruction is
// used instead.
func LoadInstruction(path string) (string, error) {
	if path == "" {
		path = DefaultInstructionFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultInstructionFile {
			return defaultInstruction, nil
		}
		return "", fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}
	return string(data), nil
}
