package execute

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner() (*Local, *bytes.Buffer) {
	var out bytes.Buffer
	return &Local{IsRoot: true, Stdout: &out}, &out
}

func TestRun_Success(t *testing.T) {
	t.Parallel()
	r, _ := newTestRunner()

	out, err := r.Run(context.Background(), Options{Command: "echo", Args: []string{"hello"}, Capture: true})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestRun_NoCaptureReturnsEmpty(t *testing.T) {
	t.Parallel()
	r, stream := newTestRunner()

	out, err := r.Run(context.Background(), Options{Command: "echo", Args: []string{"streamed"}})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stream.String(), "streamed")
}

func TestRun_QuietDoesNotStream(t *testing.T) {
	t.Parallel()
	r, stream := newTestRunner()

	_, err := r.Run(context.Background(), Options{Command: "echo", Args: []string{"hidden"}, Quiet: true})
	require.NoError(t, err)
	assert.Empty(t, stream.String())
}

func TestRun_ExitCodePropagates(t *testing.T) {
	t.Parallel()
	r, _ := newTestRunner()

	_, err := r.Run(context.Background(), Options{Command: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}, Quiet: true})
	require.Error(t, err)

	code, ok := ExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 3, code)

	var ee *ExitError
	require.True(t, errors.As(err, &ee))
	assert.Contains(t, ee.Summary, "boom")
}

func TestRun_FalseExitsOne(t *testing.T) {
	t.Parallel()
	r, _ := newTestRunner()

	_, err := r.Run(context.Background(), Options{Command: "false", Quiet: true})
	code, ok := ExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 1, code)
}

func TestRun_MissingBinary(t *testing.T) {
	t.Parallel()
	r, _ := newTestRunner()

	_, err := r.Run(context.Background(), Options{Command: "hestia-no-such-binary", Quiet: true})
	require.Error(t, err)
	code, ok := ExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 1, code)
}

func TestRun_EnvIsPerInvocation(t *testing.T) {
	t.Parallel()
	r, _ := newTestRunner()

	out, err := r.Run(context.Background(), Options{
		Command: "sh",
		Args:    []string{"-c", "printf %s \"$HESTIA_TEST_VALUE\""},
		Env:     []string{"HESTIA_TEST_VALUE=scoped"},
		Capture: true,
		Quiet:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "scoped", out)

	out, err = r.Run(context.Background(), Options{
		Command: "sh",
		Args:    []string{"-c", "printf %s \"$HESTIA_TEST_VALUE\""},
		Capture: true,
		Quiet:   true,
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRun_Stdin(t *testing.T) {
	t.Parallel()
	r, _ := newTestRunner()

	out, err := r.Run(context.Background(), Options{
		Command: "cat",
		Stdin:   strings.NewReader("SELECT 1;"),
		Capture: true,
		Quiet:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;", out)
}

func TestRun_DryRunSkipsExecution(t *testing.T) {
	t.Parallel()
	r, _ := newTestRunner()
	r.DryRun = true

	out, err := r.Run(context.Background(), Options{Command: "false"})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRun_Timeout(t *testing.T) {
	t.Parallel()
	r, _ := newTestRunner()

	_, err := r.Run(context.Background(), Options{Command: "sleep", Args: []string{"5"}, Timeout: 50 * time.Millisecond, Quiet: true})
	require.Error(t, err)
}

func TestCommandLine_Sudo(t *testing.T) {
	t.Parallel()

	nonRoot := &Local{IsRoot: false}
	name, args := nonRoot.commandLine(Options{Command: "apt-get", Args: []string{"install", "-y", "git"}, Sudo: true})
	assert.Equal(t, "sudo", name)
	assert.Equal(t, []string{"--", "apt-get", "install", "-y", "git"}, args)

	root := &Local{IsRoot: true}
	name, args = root.commandLine(Options{Command: "apt-get", Args: []string{"update"}, Sudo: true})
	assert.Equal(t, "apt-get", name)
	assert.Equal(t, []string{"update"}, args)
}

func TestCommandLine_SudoPassesEnvThroughEnv(t *testing.T) {
	t.Parallel()

	opts := Options{
		Command: "apt-get",
		Args:    []string{"install", "-y", "git"},
		Env:     []string{"DEBIAN_FRONTEND=noninteractive"},
		Sudo:    true,
	}

	name, args := (&Local{IsRoot: false}).commandLine(opts)
	assert.Equal(t, "sudo", name)
	assert.Equal(t, []string{"--", "env", "DEBIAN_FRONTEND=noninteractive", "apt-get", "install", "-y", "git"}, args)

	name, args = (&Local{IsRoot: true}).commandLine(opts)
	assert.Equal(t, "apt-get", name)
	assert.Equal(t, []string{"install", "-y", "git"}, args)
}

func TestCommandString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     Options
		want     string
		excludes string
	}{
		{
			name: "plain",
			opts: Options{Command: "bench", Args: []string{"new-site", "site1.local"}},
			want: "bench new-site site1.local",
		},
		{
			name: "quotes spaces",
			opts: Options{Command: "echo", Args: []string{"two words"}},
			want: "echo 'two words'",
		},
		{
			name:     "redacts secrets",
			opts:     Options{Command: "bench", Args: []string{"--admin-password", "s3cret"}, Redact: []string{"s3cret"}},
			want:     "bench --admin-password '********'",
			excludes: "s3cret",
		},
		{
			name:     "hides env values",
			opts:     Options{Command: "mysql", Env: []string{"MYSQL_PWD=hunter2"}},
			want:     "MYSQL_PWD=******** mysql",
			excludes: "hunter2",
		},
		{
			name: "sudo prefix",
			opts: Options{Command: "systemctl", Args: []string{"restart", "mariadb"}, Sudo: true},
			want: "sudo systemctl restart mariadb",
		},
		{
			name:     "sudo with env",
			opts:     Options{Command: "apt-get", Args: []string{"update"}, Env: []string{"DEBIAN_FRONTEND=noninteractive"}, Sudo: true},
			want:     "sudo env DEBIAN_FRONTEND=******** apt-get update",
			excludes: "noninteractive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := CommandString(tt.opts)
			assert.Equal(t, tt.want, got)
			if tt.excludes != "" {
				assert.NotContains(t, got, tt.excludes)
			}
		})
	}
}

func TestRun_FailureSummaryRedacted(t *testing.T) {
	t.Parallel()
	r, _ := newTestRunner()

	_, err := r.Run(context.Background(), Options{
		Command: "sh",
		Args:    []string{"-c", "echo bad password topsecret >&2; exit 1"},
		Redact:  []string{"topsecret"},
		Quiet:   true,
	})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "topsecret")
}
