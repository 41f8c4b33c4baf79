package config

import (
	goflags "github.com/jessevdk/go-flags"
)

// Options holds the command line surface. The positional alias selects
// a saved host; the flags override individual connection fields.
type Options struct {
	Host            string `long:"host" short:"H" description:"Remote host to connect to"`
	Port            int    `long:"port" short:"p" description:"SSH port"`
	User            string `long:"user" short:"u" description:"Remote username"`
	Identity        string `long:"identity" short:"i" description:"Identity file passed to ssh/scp"`
	Jump            string `long:"jump" short:"J" description:"ProxyJump host passed to ssh/scp"`
	Local           string `long:"local" short:"l" description:"Initial local directory"`
	Log             string `long:"log" description:"Log file path"`
	Theme           string `long:"theme" description:"Color theme (dark or light)"`
	ShowHidden      bool   `long:"show-hidden" description:"Show hidden files in the local panel"`
	ImportSSHConfig bool   `long:"import-ssh-config" description:"Merge ~/.ssh/config aliases into the host store"`
	List            bool   `long:"list" description:"List saved hosts matching the query and exit"`

	Args struct {
		Alias string `positional-arg-name:"host-alias"`
	} `positional-args:"yes"`
}

func ParseFlags(args []string) (Options, error) {
	var opts Options
	parser := goflags.NewParser(&opts, goflags.Default)
	_, err := parser.ParseArgs(args)
	return opts, err
}

// Apply overlays set flags on top of a merged config.
func (opts Options) Apply(base Config) Config {
	merged := base
	if opts.Host != "" {
		merged.Host = opts.Host
	}
	if opts.Port != 0 {
		merged.Port = opts.Port
	}
	if opts.User != "" {
		merged.Username = opts.User
	}
	if opts.Identity != "" {
		merged.IdentityFile = opts.Identity
	}
	if opts.Jump != "" {
		merged.ProxyJump = opts.Jump
	}
	if opts.Local != "" {
		merged.LocalPath = opts.Local
	}
	if opts.Log != "" {
		merged.LogPath = opts.Log
	}
	if opts.Theme != "" {
		merged.Theme = opts.Theme
	}
	if opts.ShowHidden {
		merged.ShowHidden = true
	}
	if opts.ImportSSHConfig {
		merged.ImportSSHConfig = true
	}
	return merged
}
