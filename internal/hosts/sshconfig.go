package hosts

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// ImportSSHConfig merges aliases from an OpenSSH client config into the
// database without overwriting existing entries. Wildcard and negated
// aliases are skipped. Imported hosts are tagged "ssh_config".
func ImportSSHConfig(db *Database, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if db.Hosts == nil {
		db.Hosts = map[string]Host{}
	}

	var aliases []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := splitConfigLine(scanner.Text())
		if !ok {
			continue
		}
		if strings.EqualFold(key, "Host") {
			aliases = nil
			for _, alias := range strings.FieldsFunc(value, func(r rune) bool {
				return r == ' ' || r == '\t' || r == ','
			}) {
				if alias == "" || strings.ContainsAny(alias, "*?") || strings.HasPrefix(alias, "!") {
					continue
				}
				if _, exists := db.Hosts[alias]; exists {
					continue
				}
				db.Hosts[alias] = Host{
					Name:     alias,
					Host:     alias,
					Port:     DefaultPort,
					Username: DefaultUsername,
					Tags:     []string{"ssh_config"},
				}
				aliases = append(aliases, alias)
			}
			continue
		}

		for _, alias := range aliases {
			host := db.Hosts[alias]
			switch strings.ToLower(key) {
			case "hostname":
				host.Host = value
			case "user":
				host.Username = value
			case "port":
				if port, err := strconv.Atoi(value); err == nil {
					host.Port = port
				}
			case "identityfile":
				host.IdentityFile = value
			case "proxyjump":
				host.ProxyJump = value
			}
			db.Hosts[alias] = host
		}
	}
	return scanner.Err()
}

func splitConfigLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	fields := strings.SplitN(line, " ", 2)
	if len(fields) < 2 {
		// Also accept "Key=Value" form.
		fields = strings.SplitN(line, "=", 2)
		if len(fields) < 2 {
			return "", "", false
		}
	}
	return strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1]), true
}
