// Package config resolves one invocation's Request from the ambient inputs
// (flags, environment, prompt file, piped stdin). All ambient reads happen
// here, once, before the runner executes; the runner itself only ever sees
// the assembled Request.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/codex-cli/codex/internal/apiclient"
	"github.com/codex-cli/codex/internal/tokens"
	"golang.org/x/term"
)

// Sources holds the already-read raw inputs for request resolution.
type Sources struct {
	// Prompt is the prompt text given directly on the command line.
	Prompt string

	// FilePrompt is prompt text already loaded from --prompt-file.
	FilePrompt string

	// Stdin is piped standard input, prepended to the prompt when present.
	Stdin string

	Model     string
	APIKey    string
	Stream    bool
	MaxTokens int
}

// ResolveRequest assembles and validates the Request. It is a pure function
// of its inputs: no environment or file reads happen here.
func ResolveRequest(src Sources) (*apiclient.Request, error) {
	prompt := strings.TrimSpace(src.Prompt)
	filePrompt := strings.TrimSpace(src.FilePrompt)
	if filePrompt != "" && prompt != "" {
		return nil, fmt.Errorf("use either a prompt argument or --prompt-file, not both")
	}
	if filePrompt != "" {
		prompt = filePrompt
	}

	if stdin := strings.TrimSpace(src.Stdin); stdin != "" {
		if prompt != "" {
			prompt = stdin + "\n\n" + prompt
		} else {
			prompt = stdin
		}
	}

	if prompt == "" {
		return nil, fmt.Errorf("no prompt given: pass one as an argument, via --prompt-file, or on stdin")
	}
	if src.MaxTokens <= 0 {
		return nil, fmt.Errorf("--max-tokens must be positive, got %d", src.MaxTokens)
	}

	// The prompt itself must fit the budget before anything is sent.
	if est := tokens.Estimate(prompt); est > src.MaxTokens {
		return nil, fmt.Errorf("prompt too long: estimated %d tokens exceeds the %d limit", est, src.MaxTokens)
	}

	return &apiclient.Request{
		Prompt:    prompt,
		APIKey:    src.APIKey,
		Model:     src.Model,
		Stream:    src.Stream,
		MaxTokens: src.MaxTokens,
	}, nil
}

// LoadPromptFile reads a prompt from path, applying ${env://VAR}
// substitution so prompt templates can reference environment values.
func LoadPromptFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file: %w", err)
	}
	content := string(data)
	if HasEnvVars(content) {
		content, err = SubstituteEnvVars(content)
		if err != nil {
			return "", err
		}
	}
	return content, nil
}

// ReadPipedStdin returns piped standard input, or "" when stdin is a
// terminal.
func ReadPipedStdin() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
