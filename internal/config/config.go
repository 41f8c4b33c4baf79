package config

// Config is the effective configuration after merging defaults, the
// stored file and command line flags, in that order.
type Config struct {
	Theme           string `json:"theme"`
	ShowHidden      bool   `json:"showHidden"`
	LocalPath       string `json:"localPath"`
	LogPath         string `json:"logPath"`
	ImportSSHConfig bool   `json:"importSshConfig"`

	Host         string `json:"host,omitempty"`
	Port         int    `json:"port,omitempty"`
	Username     string `json:"username,omitempty"`
	IdentityFile string `json:"identityFile,omitempty"`
	ProxyJump    string `json:"proxyJump,omitempty"`
}

// fileConfig mirrors Config with pointer fields so that absent keys in
// the stored file do not clobber defaults.
type fileConfig struct {
	Theme           *string `json:"theme"`
	ShowHidden      *bool   `json:"showHidden"`
	LocalPath       *string `json:"localPath"`
	LogPath         *string `json:"logPath"`
	ImportSSHConfig *bool   `json:"importSshConfig"`

	Host         *string `json:"host"`
	Port         *int    `json:"port"`
	Username     *string `json:"username"`
	IdentityFile *string `json:"identityFile"`
	ProxyJump    *string `json:"proxyJump"`
}
