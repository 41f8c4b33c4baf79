package remote

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scpane/internal/domain"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls  []call
	stdout map[string]string
	fail   map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		stdout: map[string]string{},
		fail:   map[string]error{},
	}
}

// Run matches canned responses by substring of the joined command line.
func (r *fakeRunner) Run(name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, call{name: name, args: args})
	line := name + " " + strings.Join(args, " ")
	for fragment, err := range r.fail {
		if strings.Contains(line, fragment) {
			return nil, err
		}
	}
	for fragment, out := range r.stdout {
		if strings.Contains(line, fragment) {
			return []byte(out), nil
		}
	}
	return nil, nil
}

func testTransport(runner Runner) *Transport {
	return NewTransport("example.com", 2222, "deploy", "/home/me/.ssh/id_ed25519").WithRunner(runner)
}

func TestListParsesAndSorts(t *testing.T) {
	runner := newFakeRunner()
	runner.stdout["ls -p -1"] = "zfile.txt\nvar/\nEtc/\nAlpha.txt\n\n"

	entries := testTransport(runner).List("/srv")
	assert.Equal(t, []domain.FileEntry{
		{Name: "Etc", IsDir: true},
		{Name: "var", IsDir: true},
		{Name: "Alpha.txt"},
		{Name: "zfile.txt"},
	}, entries)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "ssh", runner.calls[0].name)
	assert.Contains(t, strings.Join(runner.calls[0].args, " "), "deploy@example.com")
	assert.Contains(t, strings.Join(runner.calls[0].args, " "), "'/srv'")
}

func TestListFailureYieldsEmptyWithoutError(t *testing.T) {
	runner := newFakeRunner()
	runner.fail["ls -p -1"] = errors.New("exit status 2")

	entries := testTransport(runner).List("/forbidden")
	assert.Empty(t, entries)
}

func TestFileSizeParsesFirstInteger(t *testing.T) {
	runner := newFakeRunner()
	runner.stdout["stat"] = "\n4096\n"

	size, ok := testTransport(runner).FileSize("/srv/data.bin")
	assert.True(t, ok)
	assert.Equal(t, int64(4096), size)
}

func TestFileSizeFailureReportsNotOK(t *testing.T) {
	runner := newFakeRunner()
	runner.fail["stat"] = errors.New("exit status 1")

	_, ok := testTransport(runner).FileSize("/srv/missing")
	assert.False(t, ok)

	runner = newFakeRunner()
	runner.stdout["stat"] = "not a number"
	_, ok = testTransport(runner).FileSize("/srv/odd")
	assert.False(t, ok)
}

func TestGetBuildsScpCommand(t *testing.T) {
	runner := newFakeRunner()
	tr := testTransport(runner)

	require.NoError(t, tr.Get("/srv/file with space.txt", "/tmp/file with space.txt"))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "scp", runner.calls[0].name)
	joined := strings.Join(runner.calls[0].args, " ")
	assert.Contains(t, joined, "-P 2222")
	assert.Contains(t, joined, "-i /home/me/.ssh/id_ed25519")
	assert.Contains(t, joined, "deploy@example.com:'/srv/file with space.txt'")
}

func TestPutFailureIsWrapped(t *testing.T) {
	runner := newFakeRunner()
	runner.fail["scp"] = errors.New("exit status 1")

	err := testTransport(runner).Put("/tmp/up.txt", "/srv/up.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put /tmp/up.txt")
}

func TestMkdirParentsEscapesPath(t *testing.T) {
	runner := newFakeRunner()
	tr := testTransport(runner)

	require.NoError(t, tr.MkdirParents("/srv/new dir/sub"))
	joined := strings.Join(runner.calls[0].args, " ")
	assert.Contains(t, joined, "mkdir -p -- '/srv/new dir/sub'")
}

func TestHomeDir(t *testing.T) {
	runner := newFakeRunner()
	runner.stdout["$HOME"] = "/home/deploy\n"

	home, ok := testTransport(runner).HomeDir()
	assert.True(t, ok)
	assert.Equal(t, "/home/deploy", home)

	runner = newFakeRunner()
	runner.fail["$HOME"] = errors.New("exit status 255")
	_, ok = testTransport(runner).HomeDir()
	assert.False(t, ok)
}

func TestProxyJumpForwardedToSSHAndSCP(t *testing.T) {
	runner := newFakeRunner()
	tr := testTransport(runner).WithProxyJump("jump.example.com")

	tr.List("/srv")
	require.NoError(t, tr.Get("/srv/a.txt", "/tmp/a.txt"))
	require.Len(t, runner.calls, 2)

	sshLine := strings.Join(runner.calls[0].args, " ")
	assert.Contains(t, sshLine, "-J jump.example.com")
	scpLine := strings.Join(runner.calls[1].args, " ")
	assert.Contains(t, scpLine, "-o ProxyJump=jump.example.com")
}

func TestProxyJumpOmittedWhenEmpty(t *testing.T) {
	runner := newFakeRunner()
	testTransport(runner).List("/")

	joined := strings.Join(runner.calls[0].args, " ")
	assert.NotContains(t, joined, "-J")
	assert.NotContains(t, joined, "ProxyJump")
}

func TestIdentityOmittedWhenEmpty(t *testing.T) {
	runner := newFakeRunner()
	tr := NewTransport("example.com", 22, "root", "").WithRunner(runner)
	tr.List("/")

	joined := strings.Join(runner.calls[0].args, " ")
	assert.NotContains(t, joined, "-i ")
}
