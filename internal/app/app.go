package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	goflags "github.com/jessevdk/go-flags"

	"scpane/internal/config"
	"scpane/internal/hosts"
	"scpane/internal/logging"
	"scpane/internal/remote"
	"scpane/internal/state"
	"scpane/internal/transfer"
	"scpane/internal/ui"
)

func Run() {
	opts, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		if goflags.WroteHelp(err) {
			return
		}
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "scpane config warning:", err)
	}

	logPath := cfg.LogPath
	if logPath == "" {
		logPath = logging.DefaultPath()
	}
	if err := logging.Init(logPath); err != nil {
		fmt.Fprintln(os.Stderr, "scpane log warning:", err)
	}
	defer logging.Sync()

	db, err := hosts.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "scpane host store warning:", err)
	}
	if cfg.ImportSSHConfig {
		if home, homeErr := os.UserHomeDir(); homeErr == nil {
			if err := hosts.ImportSSHConfig(&db, filepath.Join(home, ".ssh", "config")); err != nil {
				logging.Warnf("ssh config import failed: %v", err)
			} else if err := hosts.Save(db); err != nil {
				logging.Warnf("host store save failed: %v", err)
			}
		}
	}

	if opts.List {
		listHosts(os.Stdout, db, opts.Args.Alias)
		return
	}

	if alias := opts.Args.Alias; alias != "" {
		host, ok := db.Resolve(alias)
		if !ok {
			fmt.Fprintf(os.Stderr, "scpane: unknown host alias %q\n", alias)
			os.Exit(1)
		}
		cfg.Host = host.Host
		cfg.Port = host.Port
		cfg.Username = host.Username
		if host.IdentityFile != "" {
			cfg.IdentityFile = host.IdentityFile
		}
		if host.ProxyJump != "" {
			cfg.ProxyJump = host.ProxyJump
		}
	}
	// Explicit flags win over both the config file and the saved host.
	cfg = opts.Apply(cfg)

	if cfg.Host == "" {
		fmt.Fprintln(os.Stderr, "scpane: no host given (pass an alias or --host)")
		os.Exit(1)
	}
	if cfg.Username == "" {
		cfg.Username = hosts.DefaultUsername
	}
	if cfg.Port == 0 {
		cfg.Port = hosts.DefaultPort
	}

	transport := remote.NewTransport(cfg.Host, cfg.Port, cfg.Username, cfg.IdentityFile).
		WithProxyJump(cfg.ProxyJump)
	remoteCwd, ok := transport.HomeDir()
	if !ok {
		remoteCwd = "/"
	}

	target := fmt.Sprintf("%s@%s:%d", cfg.Username, cfg.Host, cfg.Port)
	listings := remote.NewListingCache(transport)
	snapshotPath := remote.DefaultSnapshotPath()
	listings.LoadSnapshot(snapshotPath, target)

	localCwd := cfg.LocalPath
	if localCwd == "" {
		if home, homeErr := os.UserHomeDir(); homeErr == nil {
			localCwd = home
		} else {
			localCwd = "."
		}
	}

	logging.Infof("session start %s@%s:%d local=%s remote=%s", cfg.Username, cfg.Host, cfg.Port, localCwd, remoteCwd)

	browser := state.NewBrowser(localCwd, remoteCwd)
	manager := transfer.NewManager(transport)
	model := ui.NewModel(browser, manager, listings, cfg.Theme, target, cfg.ShowHidden)

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "scpane error:", err)
		os.Exit(1)
	}
	if err := listings.SaveSnapshot(snapshotPath, target); err != nil {
		logging.Warnf("listing snapshot save failed: %v", err)
	}
	if err := config.SaveConfig(cfg); err != nil {
		logging.Warnf("config save failed: %v", err)
	}
}

// listHosts prints the saved hosts matching a query (wildcards and
// name:/host:/user:/tag: tokens) in store order by name.
func listHosts(out io.Writer, db hosts.Database, query string) {
	matched := hosts.Filter(db, query)
	if len(matched) == 0 {
		fmt.Fprintln(out, "no matching hosts")
		return
	}
	for _, host := range matched {
		line := fmt.Sprintf("%-20s %s@%s:%d", host.Name, host.Username, host.Host, host.Port)
		if host.ProxyJump != "" {
			line += "  via " + host.ProxyJump
		}
		if len(host.Tags) > 0 {
			line += "  [" + strings.Join(host.Tags, ", ") + "]"
		}
		fmt.Fprintln(out, line)
	}
}
