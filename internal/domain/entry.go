package domain

import (
	"sort"
	"strings"
)

// ParentEntry is the synthetic entry prepended to a listing whose
// directory has a parent.
const ParentEntry = ".."

type FileEntry struct {
	Name  string
	IsDir bool
}

func (entry FileEntry) IsParent() bool {
	return entry.Name == ParentEntry
}

// SortEntries orders a listing in place: directories before files, each
// group case-insensitively by name.
func SortEntries(entries []FileEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

// ApplyFilter returns the entries whose name contains the filter text,
// case-insensitive. An empty filter returns a copy of the full listing.
func ApplyFilter(entries []FileEntry, filter string) []FileEntry {
	if filter == "" {
		out := make([]FileEntry, len(entries))
		copy(out, entries)
		return out
	}
	needle := strings.ToLower(filter)
	out := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Name), needle) {
			out = append(out, entry)
		}
	}
	return out
}
