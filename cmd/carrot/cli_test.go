package main

import (
	"bytes"
	"testing"

	"github.com/ajiwo/carrot/backends"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CARROT_BACKEND", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestResolveCommand(t *testing.T) {
	out, err := runCLI(t, "resolve", "AMQP")
	require.NoError(t, err)

	var got resolution
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "AMQP", got.Name)
	assert.Equal(t, "carrot.backends.pyamqplib", got.Module)
	assert.Equal(t, "alias", got.Source)
	assert.Equal(t, "amqp", got.Backend)
}

func TestResolveCommand_NotFound(t *testing.T) {
	_, err := runCLI(t, "resolve", "doesnotexist")
	require.ErrorIs(t, err, backends.ErrBackendNotFound)
}

func TestDefaultCommand(t *testing.T) {
	out, err := runCLI(t, "default")
	require.NoError(t, err)

	var got resolution
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, backends.FallbackBackend, got.Name)
	assert.Equal(t, "carrot.backends.pyamqplib", got.Module)
	assert.Equal(t, "passthrough", got.Source)
}

func TestAliasesCommand(t *testing.T) {
	out, err := runCLI(t, "aliases")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, backends.Aliases(), got)
}

func TestModulesCommand(t *testing.T) {
	out, err := runCLI(t, "modules")
	require.NoError(t, err)

	var got []resolution
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	modules := make([]string, 0, len(got))
	for _, r := range got {
		modules = append(modules, r.Module)
	}
	assert.Contains(t, modules, "carrot.backends.queue")
	assert.Contains(t, modules, "github.com/ajiwo/carrot/backends/nats")
}

func TestPublishCommand_Memory(t *testing.T) {
	out, err := runCLI(t, "publish", "memory", "jobs", "hello", "-H", "k=v")
	require.NoError(t, err)
	assert.Contains(t, out, `"id"`)

	_, err = runCLI(t, "publish", "memory", "jobs", "hello", "-H", "novalue")
	require.Error(t, err)
}

func TestGetCommand_RejectsProcessLocalQueue(t *testing.T) {
	for _, name := range []string{"memory", "MEM", "carrot.backends.queue"} {
		_, err := runCLI(t, "get", name, "jobs")
		require.ErrorIs(t, err, errProcessLocal, name)
	}
}

func TestPurgeCommand_RejectsProcessLocalQueue(t *testing.T) {
	_, err := runCLI(t, "purge", "mem", "jobs")
	require.ErrorIs(t, err, errProcessLocal)
}

func TestGetCommand_NotFound(t *testing.T) {
	_, err := runCLI(t, "get", "doesnotexist", "jobs")
	require.ErrorIs(t, err, backends.ErrBackendNotFound)
}

func TestBadLogLevel(t *testing.T) {
	_, err := runCLI(t, "--log-level", "loud", "aliases")
	require.Error(t, err)
}
