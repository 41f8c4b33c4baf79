package remote

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"scpane/internal/domain"
	"scpane/internal/logging"
	"scpane/internal/pathutil"
)

// Runner executes an external command and returns its stdout. A non-zero
// exit status is reported as an error. Swapped out in tests.
type Runner interface {
	Run(name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return out, errors.Wrapf(err, "%s: %s", name, detail)
		}
		return out, errors.Wrap(err, name)
	}
	return out, nil
}

// Transport reaches a remote host through the external ssh and scp
// executables. It holds only connection parameters; every call shells out
// and blocks until the process exits. No timeouts are enforced.
type Transport struct {
	Host      string
	Port      int
	User      string
	Identity  string
	ProxyJump string

	runner Runner
}

func NewTransport(host string, port int, user, identity string) *Transport {
	return &Transport{
		Host:     host,
		Port:     port,
		User:     user,
		Identity: identity,
		runner:   execRunner{},
	}
}

// WithRunner replaces the command runner. Test hook.
func (t *Transport) WithRunner(runner Runner) *Transport {
	t.runner = runner
	return t
}

// WithProxyJump routes every connection through a jump host.
func (t *Transport) WithProxyJump(jump string) *Transport {
	t.ProxyJump = jump
	return t
}

func (t *Transport) target() string {
	return t.User + "@" + t.Host
}

func (t *Transport) sshArgs(remoteCmd string) []string {
	args := []string{"-p", strconv.Itoa(t.Port)}
	if t.Identity != "" {
		args = append(args, "-i", t.Identity)
	}
	if t.ProxyJump != "" {
		args = append(args, "-J", t.ProxyJump)
	}
	return append(args, t.target(), remoteCmd)
}

func (t *Transport) scpArgs(src, dst string) []string {
	args := []string{"-q", "-P", strconv.Itoa(t.Port)}
	if t.Identity != "" {
		args = append(args, "-i", t.Identity)
	}
	if t.ProxyJump != "" {
		args = append(args, "-o", "ProxyJump="+t.ProxyJump)
	}
	return append(args, src, dst)
}

// List lists a remote directory. Any transport failure yields an empty
// listing instead of an error so the browser stays usable against
// unreachable paths; the failure is still written to the session log.
func (t *Transport) List(remotePath string) []domain.FileEntry {
	remoteCmd := fmt.Sprintf("LC_ALL=C ls -p -1 -- %s", pathutil.ShellEscape(remotePath))
	out, err := t.runner.Run("ssh", t.sshArgs(remoteCmd)...)
	if err != nil {
		logging.Warnf("remote list %s failed: %v", remotePath, err)
		return nil
	}

	var entries []domain.FileEntry
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		isDir := strings.HasSuffix(line, "/")
		entries = append(entries, domain.FileEntry{
			Name:  strings.TrimSuffix(line, "/"),
			IsDir: isDir,
		})
	}
	domain.SortEntries(entries)
	return entries
}

// FileSize probes a remote file's byte count, trying GNU stat syntax then
// BSD. A failed or unparsable probe reports ok=false; callers degrade the
// progress display rather than refusing the transfer.
func (t *Transport) FileSize(remotePath string) (int64, bool) {
	escaped := pathutil.ShellEscape(remotePath)
	remoteCmd := fmt.Sprintf(
		"LC_ALL=C stat -c %%s -- %s 2>/dev/null || stat -f %%z -- %s 2>/dev/null",
		escaped, escaped,
	)
	out, err := t.runner.Run("ssh", t.sshArgs(remoteCmd)...)
	if err != nil {
		logging.Debugf("remote stat %s failed: %v", remotePath, err)
		return 0, false
	}
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if size, parseErr := strconv.ParseInt(line, 10, 64); parseErr == nil {
			return size, true
		}
	}
	return 0, false
}

// HomeDir resolves the remote user's home directory. ok=false means the
// caller should fall back to "/".
func (t *Transport) HomeDir() (string, bool) {
	out, err := t.runner.Run("ssh", t.sshArgs(`printf '%s' "$HOME"`)...)
	if err != nil {
		logging.Warnf("remote home lookup failed: %v", err)
		return "", false
	}
	home := strings.TrimSpace(string(out))
	if home == "" {
		return "", false
	}
	return home, true
}

// Get copies a remote file to a local path via scp.
func (t *Transport) Get(remotePath, localPath string) error {
	src := t.target() + ":" + pathutil.ShellEscape(remotePath)
	_, err := t.runner.Run("scp", t.scpArgs(src, localPath)...)
	return errors.Wrapf(err, "get %s", remotePath)
}

// Put copies a local file to a remote path via scp.
func (t *Transport) Put(localPath, remotePath string) error {
	dst := t.target() + ":" + pathutil.ShellEscape(remotePath)
	_, err := t.runner.Run("scp", t.scpArgs(localPath, dst)...)
	return errors.Wrapf(err, "put %s", localPath)
}

// MkdirParents creates a remote directory and its parents. Idempotent.
func (t *Transport) MkdirParents(remotePath string) error {
	remoteCmd := fmt.Sprintf("mkdir -p -- %s", pathutil.ShellEscape(remotePath))
	_, err := t.runner.Run("ssh", t.sshArgs(remoteCmd)...)
	return errors.Wrapf(err, "mkdir %s", remotePath)
}
