package interaction

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompter(lines ...string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out), &out
}

func TestCollectSecret_RepromptsUntilEntriesMatch(t *testing.T) {
	t.Parallel()
	p, out := newTestPrompter("a", "b", "a", "a", "zzz")

	s, err := p.CollectSecret(context.Background(), "Admin password")
	require.NoError(t, err)
	assert.Equal(t, "a", s.Reveal())
	assert.Equal(t, "Admin password", s.Label())
	assert.Contains(t, out.String(), "do not match")

	// The fifth line is still unread.
	next, err := p.ReadLine(context.Background(), "next")
	require.NoError(t, err)
	assert.Equal(t, "zzz", next)
}

func TestCollectSecret_RejectsEmpty(t *testing.T) {
	t.Parallel()
	p, out := newTestPrompter("", "pw", "pw")

	s, err := p.CollectSecret(context.Background(), "Root password")
	require.NoError(t, err)
	assert.Equal(t, "pw", s.Reveal())
	assert.Contains(t, out.String(), "cannot be empty")
}

func TestCollectSecret_KeepsSurroundingSpaces(t *testing.T) {
	t.Parallel()
	p := NewPrompter(strings.NewReader("  pass word \r\n  pass word \r\n"), &bytes.Buffer{})

	s, err := p.CollectSecret(context.Background(), "Root password")
	require.NoError(t, err)
	assert.Equal(t, "  pass word ", s.Reveal())
}

func TestCollectSecret_EOF(t *testing.T) {
	t.Parallel()
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})

	_, err := p.CollectSecret(context.Background(), "Root password")
	require.Error(t, err)
}

func TestCollectSecret_CancelledContext(t *testing.T) {
	t.Parallel()
	p, _ := newTestPrompter("a", "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.CollectSecret(ctx, "Root password")
	require.ErrorIs(t, err, context.Canceled)
}

func TestConfirmStage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  bool
	}{
		{"yes", []string{"yes"}, true},
		{"y upper", []string{"Y"}, true},
		{"YES mixed", []string{"  YeS  "}, true},
		{"no", []string{"no"}, false},
		{"n", []string{"N"}, false},
		{"garbage then yes", []string{"maybe", "", "yep", "y"}, true},
		{"empty then no", []string{"", "n"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, _ := newTestPrompter(tt.lines...)
			got, err := p.ConfirmStage(context.Background(), "Install ERPNext?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfirmStage_NoDefaultOnEOF(t *testing.T) {
	t.Parallel()
	p, _ := newTestPrompter("whatever")

	_, err := p.ConfirmStage(context.Background(), "Proceed?")
	require.Error(t, err)
}

func TestReadLine_AcceptsFinalLineWithoutNewline(t *testing.T) {
	t.Parallel()
	p := NewPrompter(strings.NewReader("site1.local"), &bytes.Buffer{})

	got, err := p.ReadLine(context.Background(), "Site")
	require.NoError(t, err)
	assert.Equal(t, "site1.local", got)
}

func TestPromptInput_Default(t *testing.T) {
	t.Parallel()
	p, out := newTestPrompter("", "custom")

	got, err := p.PromptInput(context.Background(), "Site name", "site1.local")
	require.NoError(t, err)
	assert.Equal(t, "site1.local", got)
	assert.Contains(t, out.String(), "Site name [site1.local]: ")

	got, err = p.PromptInput(context.Background(), "Site name", "site1.local")
	require.NoError(t, err)
	assert.Equal(t, "custom", got)
}

func TestPromptValidated_Reprompts(t *testing.T) {
	t.Parallel()
	p, out := newTestPrompter("not an email", "ops@example.com")

	got, err := p.PromptValidated(context.Background(), "Email", "", ValidateEmail)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", got)
	assert.Contains(t, out.String(), "invalid email format")
}

func TestPromptSelect(t *testing.T) {
	t.Parallel()
	options := []string{"version-14", "version-15", "develop"}

	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"by number", []string{"2"}, "version-15"},
		{"by name", []string{"develop"}, "develop"},
		{"default", []string{""}, "version-15"},
		{"invalid then valid", []string{"9", "foo", "1"}, "version-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, _ := newTestPrompter(tt.lines...)
			got, err := p.PromptSelect(context.Background(), "Frappe branch", options, "version-15")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromptSelect_NoOptions(t *testing.T) {
	t.Parallel()
	p, _ := newTestPrompter("1")

	_, err := p.PromptSelect(context.Background(), "Pick", nil, "")
	require.Error(t, err)
}

func TestNormalizeYesNoInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		answer bool
		ok     bool
	}{
		{"y", true, true},
		{"Yes", true, true},
		{" n ", false, true},
		{"NO", false, true},
		{"", false, false},
		{"yeah", false, false},
		{"0", false, false},
	}
	for _, tt := range tests {
		answer, ok := NormalizeYesNoInput(tt.in)
		assert.Equal(t, tt.answer, answer, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestSaveTerminal_NoopWithoutTTY(t *testing.T) {
	t.Parallel()
	p, _ := newTestPrompter()

	restore, err := p.SaveTerminal()
	require.NoError(t, err)
	assert.False(t, p.IsTerminal())
	assert.NoError(t, restore())
}
