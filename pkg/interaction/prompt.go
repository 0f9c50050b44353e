// pkg/interaction/prompt.go

package interaction

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/hestia_err"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	YesShort = "y"
	YesLong  = "yes"
	NoShort  = "n"
	NoLong   = "no"
)

// CollectSecret asks for a hidden value twice and returns it once both
// entries match. Empty values and mismatches re-prompt without limit.
func (p *Prompter) CollectSecret(ctx context.Context, label string) (*Secret, error) {
	logger := otelzap.Ctx(ctx)

	for attempt := 1; ; attempt++ {
		first, err := p.readHidden(ctx, label)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", label, err)
		}
		if len(first) == 0 {
			p.Printf("%s cannot be empty.\n", label)
			continue
		}

		second, err := p.readHidden(ctx, "Confirm "+label)
		if err != nil {
			wipe(first)
			return nil, fmt.Errorf("reading %s confirmation: %w", label, err)
		}

		a := &Secret{label: label, value: first}
		b := &Secret{label: label, value: second}
		if a.Equal(b) {
			b.Clear()
			logger.Debug("Secret confirmed", zap.String("label", label), zap.Int("attempts", attempt))
			return a, nil
		}

		a.Clear()
		b.Clear()
		logger.Warn("Secret entries did not match", zap.String("label", label), zap.Int("attempt", attempt))
		p.Printf("%v\n", hestia_err.ErrInputMismatch)
	}
}

// ConfirmStage asks a yes/no question. Only y, yes, n and no are accepted
// (case-insensitive); anything else, including an empty line, re-prompts.
func (p *Prompter) ConfirmStage(ctx context.Context, question string) (bool, error) {
	label := fmt.Sprintf("%s [%s/%s]", question, YesShort, NoShort)
	for {
		input, err := p.ReadLine(ctx, label)
		if err != nil {
			return false, fmt.Errorf("reading answer to %q: %w", question, err)
		}
		if answer, ok := NormalizeYesNoInput(input); ok {
			otelzap.Ctx(ctx).Info("Operator answered", zap.String("question", question), zap.Bool("answer", answer))
			return answer, nil
		}
		p.Printf("Please answer yes or no.\n")
	}
}

// PromptInput asks for user input with an optional default fallback.
func (p *Prompter) PromptInput(ctx context.Context, label, defaultVal string) (string, error) {
	if defaultVal != "" {
		label = fmt.Sprintf("%s [%s]", label, defaultVal)
	}
	input, err := p.ReadLine(ctx, label)
	if err != nil {
		return "", err
	}
	if input == "" {
		otelzap.Ctx(ctx).Debug("Using default value", zap.String("default", defaultVal))
		return defaultVal, nil
	}
	return input, nil
}

// PromptValidated asks for input until the validator passes.
func (p *Prompter) PromptValidated(ctx context.Context, label, defaultVal string, validator func(string) error) (string, error) {
	for {
		input, err := p.PromptInput(ctx, label, defaultVal)
		if err != nil {
			return "", err
		}
		if err := validator(input); err != nil {
			p.Printf("%v\n", err)
			continue
		}
		return input, nil
	}
}

// PromptSelect displays numbered options and returns the chosen one.
// The operator may type the number or the option itself; an empty line
// picks defaultVal when it is one of the options.
func (p *Prompter) PromptSelect(ctx context.Context, prompt string, options []string, defaultVal string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options to select from for %q", prompt)
	}

	p.Printf("%s\n", prompt)
	for i, option := range options {
		marker := ""
		if option == defaultVal {
			marker = " (default)"
		}
		p.Printf("  %d) %s%s\n", i+1, option, marker)
	}

	for {
		choice, err := p.ReadLine(ctx, "Enter choice")
		if err != nil {
			return "", err
		}
		if choice == "" && contains(options, defaultVal) {
			return defaultVal, nil
		}
		if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(options) {
			return options[idx-1], nil
		}
		if contains(options, choice) {
			return choice, nil
		}
		otelzap.Ctx(ctx).Warn("Invalid selection", zap.String("input", choice))
		p.Printf("Invalid selection. Please try again.\n")
	}
}

// NormalizeYesNoInput parses an answer. The second result is false when the
// input is neither yes nor no.
func NormalizeYesNoInput(input string) (bool, bool) {
	input = strings.TrimSpace(strings.ToLower(input))
	switch input {
	case YesShort, YesLong:
		return true, true
	case NoShort, NoLong:
		return false, true
	}
	return false, false
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
