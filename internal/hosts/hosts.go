package hosts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	storeDirName  = "scpane"
	storeFileName = "hosts.json"

	DefaultPort     = 22
	DefaultUsername = "root"
)

// Host is a saved connection target. An alias in the store maps to one
// of these; CLI flags can override any field at startup.
type Host struct {
	Name         string   `json:"name"`
	Host         string   `json:"host"`
	Port         int      `json:"port"`
	Username     string   `json:"username"`
	IdentityFile string   `json:"identity_file,omitempty"`
	ProxyJump    string   `json:"proxy_jump,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Folder       string   `json:"folder,omitempty"`
}

type Database struct {
	Hosts   map[string]Host `json:"hosts"`
	Folders []string        `json:"folders"`
}

func StorePath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, storeDirName, storeFileName), nil
}

// Load reads the host database. A missing file is an empty database.
// The legacy format (a bare alias→host map without the folders wrapper)
// is still accepted and migrated on the next Save.
func Load() (Database, error) {
	path, err := StorePath()
	if err != nil {
		return emptyDatabase(), err
	}
	return LoadFrom(path)
}

func LoadFrom(path string) (Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyDatabase(), nil
		}
		return emptyDatabase(), errors.Wrap(err, "read host store")
	}

	var db Database
	if err := json.Unmarshal(data, &db); err == nil && db.Hosts != nil {
		normalize(db.Hosts)
		return db, nil
	}

	var legacy map[string]Host
	if err := json.Unmarshal(data, &legacy); err == nil && legacy != nil {
		normalize(legacy)
		db = Database{Hosts: legacy}
		for _, host := range legacy {
			if host.Folder != "" {
				db.Folders = append(db.Folders, host.Folder)
			}
		}
		sort.Strings(db.Folders)
		db.Folders = dedupe(db.Folders)
		return db, nil
	}

	return emptyDatabase(), errors.Errorf("unrecognized host store format: %s", path)
}

func Save(db Database) error {
	path, err := StorePath()
	if err != nil {
		return err
	}
	return SaveTo(db, path)
}

func SaveTo(db Database, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "host store dir")
	}
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Resolve finds a host by alias.
func (db Database) Resolve(alias string) (Host, bool) {
	host, ok := db.Hosts[alias]
	return host, ok
}

func emptyDatabase() Database {
	return Database{Hosts: map[string]Host{}}
}

func normalize(hosts map[string]Host) {
	for alias, host := range hosts {
		if host.Name == "" {
			host.Name = alias
		}
		if host.Port == 0 {
			host.Port = DefaultPort
		}
		if host.Username == "" {
			host.Username = DefaultUsername
		}
		hosts[alias] = host
	}
}

func dedupe(values []string) []string {
	out := values[:0]
	var prev string
	for i, value := range values {
		if i == 0 || value != prev {
			out = append(out, value)
		}
		prev = value
	}
	return out
}

// WildcardMatch is a case-insensitive match with '*' wildcards. Without
// a wildcard it is a substring test; with wildcards the parts must occur
// in order, anchored at the start and end when the pattern does not
// begin or end with '*'.
func WildcardMatch(pattern, text string) bool {
	pattern = strings.ToLower(pattern)
	text = strings.ToLower(text)
	if pattern == "*" {
		return true
	}
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return strings.Contains(text, pattern)
	}

	idx := 0
	for _, part := range parts {
		if part == "" {
			continue
		}
		found := strings.Index(text[idx:], part)
		if found < 0 {
			return false
		}
		idx += found + len(part)
	}
	if !strings.HasPrefix(pattern, "*") && !strings.HasPrefix(text, parts[0]) {
		return false
	}
	if !strings.HasSuffix(pattern, "*") && !strings.HasSuffix(text, parts[len(parts)-1]) {
		return false
	}
	return true
}

// Filter selects hosts matching a query like
// "tag:prod host:10.* name:web ubuntu"; bare tokens match the name.
// Results are sorted by name.
func Filter(db Database, query string) []Host {
	var namePats, hostPats, userPats, tagPats []string
	for _, token := range strings.Fields(query) {
		switch {
		case strings.HasPrefix(token, "name:"):
			namePats = append(namePats, strings.TrimPrefix(token, "name:"))
		case strings.HasPrefix(token, "host:"):
			hostPats = append(hostPats, strings.TrimPrefix(token, "host:"))
		case strings.HasPrefix(token, "user:"):
			userPats = append(userPats, strings.TrimPrefix(token, "user:"))
		case strings.HasPrefix(token, "tag:"):
			tagPats = append(tagPats, strings.TrimPrefix(token, "tag:"))
		default:
			namePats = append(namePats, token)
		}
	}

	var out []Host
	for _, host := range db.Hosts {
		if matchAll(namePats, host.Name) &&
			matchAll(hostPats, host.Host) &&
			matchAll(userPats, host.Username) &&
			matchTags(tagPats, host.Tags) {
			out = append(out, host)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func matchAll(patterns []string, value string) bool {
	for _, pattern := range patterns {
		if !WildcardMatch(pattern, value) {
			return false
		}
	}
	return true
}

func matchTags(patterns []string, tags []string) bool {
	for _, pattern := range patterns {
		matched := false
		for _, tag := range tags {
			if WildcardMatch(pattern, tag) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
