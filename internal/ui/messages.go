package ui

import (
	"time"

	"scpane/internal/domain"
)

// tickMsg drives the transfer aggregator; one arrives every tickInterval
// while the program runs.
type tickMsg time.Time

type localListingMsg struct {
	path    string
	entries []domain.FileEntry
	err     error
}

// remoteListingMsg carries no error: a failed remote listing surfaces as
// an empty directory and the cause goes to the log file.
type remoteListingMsg struct {
	path    string
	entries []domain.FileEntry
}
