package refactor

import (
	"context"
	"fmt"

	"github.com/alantheprice/codebaseai/pkg/interfaces"
	"github.com/alantheprice/codebaseai/pkg/parser"
	"github.com/alantheprice/codebaseai/pkg/prompts"
)

// BodyRefactorer rewrites a single method body.
type BodyRefactorer interface {
	RefactorBody(ctx context.Context, body string) (string, error)
}

// Invoker sends method bodies to an LLM provider together with a fixed
// refactoring instruction.
type Invoker struct {
	provider interfaces.LLMProvider
	prompt   string
	model    string
}

// NewInvoker creates an invoker that prefixes every request with instruction.
func NewInvoker(provider interfaces.LLMProvider, instruction, model string) *Invoker {
	return &Invoker{
		provider: provider,
		prompt:   prompts.BuildRefactorPrompt(instruction),
		model:    model,
	}
}

// RefactorBody submits body to the provider and returns the response with any
// surrounding code fence removed. The response is not validated as source;
// provider errors are returned as-is, wrapped with the provider name.
func (inv *Invoker) RefactorBody(ctx context.Context, body string) (string, error) {
	resp, err := inv.provider.Submit(ctx, inv.prompt, body, inv.model)
	if err != nil {
		return "", fmt.Errorf("%s: %w", inv.provider.GetName(), err)
	}
	return parser.StripCodeFence(resp), nil
}
