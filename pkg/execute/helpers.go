// pkg/execute/helpers.go

package execute

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

const redacted = "********"

// CommandString renders a command for logs: shell-quoted, secrets masked,
// environment values hidden.
func CommandString(opts Options) string {
	parts := make([]string, 0, len(opts.Args)+len(opts.Env)+3)
	if opts.Sudo {
		parts = append(parts, "sudo")
		if len(opts.Env) > 0 {
			parts = append(parts, "env")
		}
	}
	for _, kv := range opts.Env {
		key, _, _ := strings.Cut(kv, "=")
		parts = append(parts, key+"="+redacted)
	}
	parts = append(parts, quote(opts.Command))
	for _, a := range opts.Args {
		parts = append(parts, quote(redact(a, opts.Redact)))
	}
	return strings.Join(parts, " ")
}

// Quote shell-quotes a single word for bash.
func Quote(s string) string {
	return quote(s)
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return q
}

func redact(s string, secrets []string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, redacted)
	}
	return s
}
