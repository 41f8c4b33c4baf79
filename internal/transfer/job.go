package transfer

import "time"

type Kind int

const (
	Download Kind = iota
	FolderDownload
	Upload
	FolderUpload
)

func (kind Kind) String() string {
	switch kind {
	case Download:
		return "download"
	case FolderDownload:
		return "folder download"
	case Upload:
		return "upload"
	case FolderUpload:
		return "folder upload"
	default:
		return "transfer"
	}
}

// IsDownload reports whether the job writes into the local panel's
// directory; used to decide which panel to refresh on completion.
func (kind Kind) IsDownload() bool {
	return kind == Download || kind == FolderDownload
}

// Job is a single requested transfer. The ID stays stable for the job's
// lifetime and correlates events with the active set.
type Job struct {
	ID         uint64
	Kind       Kind
	FileName   string
	SourcePath string // remote path for downloads, local path for uploads
	DestPath   string // local path for downloads, remote path for uploads
	TotalBytes int64
	HasTotal   bool
}

// ActiveTransfer is the renderable view of a running job. Owned by the
// UI goroutine; workers never touch it.
type ActiveTransfer struct {
	Job        Job
	BytesDone  int64
	BytesTotal int64
	FilesDone  int
	FilesTotal int
	StartedAt  time.Time
}

// Percent returns transfer completion clamped to [0, 100]. Producers may
// over-report (a stale size probe), so the clamp happens here at render
// time. ok=false means the total is unknown and the bar is indeterminate.
func (a *ActiveTransfer) Percent() (int, bool) {
	if a.BytesTotal <= 0 {
		return 0, false
	}
	pct := int(a.BytesDone * 100 / a.BytesTotal)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, true
}

// Event is a message from a worker to the aggregator. Per-job ordering is
// FIFO; no ordering is guaranteed across jobs.
type Event interface {
	event()
}

// Progress reports partial state of a multi-file job.
type Progress struct {
	JobID      uint64
	Label      string
	FilesDone  int
	FilesTotal int
	BytesDone  int64
	BytesTotal int64
}

// Completed is the single terminal event of a job. LocalPath is set for
// downloads, RemotePath for uploads, so the aggregator can refresh and
// invalidate the directory the job actually wrote into even when the
// operator has navigated away.
type Completed struct {
	JobID      uint64
	Kind       Kind
	FileName   string
	LocalPath  string
	RemotePath string
	Err        error
}

func (Progress) event()  {}
func (Completed) event() {}
