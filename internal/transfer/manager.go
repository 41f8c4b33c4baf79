package transfer

import (
	"os"
	"path"
	"path/filepath"
	"time"

	"scpane/internal/domain"
	"scpane/internal/localfs"
	"scpane/internal/logging"
	"scpane/internal/pathutil"
)

// MaxParallelDownloads bounds concurrently active single-file downloads.
// Folder jobs and uploads are deliberately outside this cap: a folder job
// already serializes its own files, and uploads have always been
// fire-and-forget. The asymmetry is preserved, not an accident of this
// implementation.
const MaxParallelDownloads = 3

// Transport is the blocking external collaborator the workers call.
type Transport interface {
	List(remotePath string) []domain.FileEntry
	FileSize(remotePath string) (int64, bool)
	Get(remotePath, localPath string) error
	Put(localPath, remotePath string) error
	MkdirParents(remotePath string) error
}

// Manager owns the pending queue and the active set. All of its methods
// must be called from the UI goroutine; workers communicate back only
// through the event channel. No job can be cancelled once active, and no
// timeout is applied to transport calls - a hung process parks its worker
// without affecting the UI loop or other workers.
type Manager struct {
	transport Transport
	events    chan Event
	pending   []Job
	active    []*ActiveTransfer
	nextID    uint64
}

func NewManager(transport Transport) *Manager {
	return &Manager{
		transport: transport,
		events:    make(chan Event, 64),
	}
}

func (m *Manager) newJob(kind Kind, fileName, source, dest string) Job {
	m.nextID++
	return Job{
		ID:         m.nextID,
		Kind:       kind,
		FileName:   fileName,
		SourcePath: source,
		DestPath:   dest,
	}
}

func (m *Manager) track(job Job) *ActiveTransfer {
	transfer := &ActiveTransfer{
		Job:        job,
		BytesTotal: job.TotalBytes,
		StartedAt:  time.Now(),
	}
	m.active = append(m.active, transfer)
	return transfer
}

func (m *Manager) remove(jobID uint64) {
	for i, transfer := range m.active {
		if transfer.Job.ID == jobID {
			m.active = append(m.active[:i], m.active[i+1:]...)
			return
		}
	}
}

func (m *Manager) activeDownloads() int {
	count := 0
	for _, transfer := range m.active {
		if transfer.Job.Kind == Download {
			count++
		}
	}
	return count
}

// Active returns the running transfers in start order.
func (m *Manager) Active() []*ActiveTransfer {
	return m.active
}

// QueuedCount returns the number of downloads still waiting for a slot.
func (m *Manager) QueuedCount() int {
	return len(m.pending)
}

// EnqueueDownload queues a single-file download. destPath must already be
// collision-free (pathutil.UniqueLocalPath); total is the probed remote
// size, hasTotal=false degrades the bar to indeterminate.
func (m *Manager) EnqueueDownload(fileName, remotePath, destPath string, total int64, hasTotal bool) uint64 {
	job := m.newJob(Download, fileName, remotePath, destPath)
	job.TotalBytes = total
	job.HasTotal = hasTotal
	m.pending = append(m.pending, job)
	logging.Infof("queued download %d %s -> %s", job.ID, remotePath, destPath)
	return job.ID
}

// StartFolderDownload launches one aggregate job for a remote subtree: a
// worker enumerates the tree depth-first, then transfers its files
// sequentially into localRoot. Not counted against MaxParallelDownloads.
func (m *Manager) StartFolderDownload(folderName, remotePath, localRoot string) uint64 {
	job := m.newJob(FolderDownload, folderName, remotePath, localRoot)
	m.track(job)
	go m.runFolderDownload(job)
	logging.Infof("started folder download %d %s -> %s", job.ID, remotePath, localRoot)
	return job.ID
}

// StartUpload launches an unbounded fire-and-forget single-file upload.
func (m *Manager) StartUpload(fileName, localPath, remoteDir string) uint64 {
	job := m.newJob(Upload, fileName, localPath, pathutil.JoinRemote(remoteDir, fileName))
	m.track(job)
	go m.runUpload(job)
	logging.Infof("started upload %d %s -> %s", job.ID, localPath, job.DestPath)
	return job.ID
}

// StartFolderUpload launches a recursive upload of localRoot under
// remoteDir. Directories are created first with an idempotent mkdir -p;
// a failed mkdir or file copy aborts the remaining files of the job.
func (m *Manager) StartFolderUpload(folderName, localRoot, remoteDir string) uint64 {
	job := m.newJob(FolderUpload, folderName, localRoot, pathutil.JoinRemote(remoteDir, folderName))
	m.track(job)
	go m.runFolderUpload(job)
	logging.Infof("started folder upload %d %s -> %s", job.ID, localRoot, job.DestPath)
	return job.ID
}

// Tick runs once per UI tick: promote queued downloads into free slots,
// then refresh sampled progress for the running single-file downloads.
func (m *Manager) Tick() {
	for m.activeDownloads() < MaxParallelDownloads && len(m.pending) > 0 {
		job := m.pending[0]
		m.pending = m.pending[1:]
		m.track(job)
		go m.runDownload(job)
	}

	// Single-file download progress is approximated by the size of the
	// destination file on disk; scp's write is close enough to linear
	// that transient under/over-reports are tolerable.
	for _, transfer := range m.active {
		if transfer.Job.Kind == Download {
			transfer.BytesDone = localfs.FileSize(transfer.Job.DestPath)
		}
	}
}

// Drain consumes every event currently buffered without blocking, merges
// them into the active set, and returns them for the caller to present.
// This is the only place transfer-visible UI state is mutated.
func (m *Manager) Drain() []Event {
	var drained []Event
	for {
		select {
		case ev := <-m.events:
			m.apply(ev)
			drained = append(drained, ev)
		default:
			return drained
		}
	}
}

func (m *Manager) apply(ev Event) {
	switch ev := ev.(type) {
	case Progress:
		for _, transfer := range m.active {
			if transfer.Job.ID == ev.JobID {
				transfer.FilesDone = ev.FilesDone
				transfer.FilesTotal = ev.FilesTotal
				transfer.BytesDone = ev.BytesDone
				transfer.BytesTotal = ev.BytesTotal
				return
			}
		}
	case Completed:
		m.remove(ev.JobID)
		if ev.Err != nil {
			logging.Errorf("%s %d failed: %v", ev.Kind, ev.JobID, ev.Err)
		} else {
			logging.Infof("%s %d completed: %s", ev.Kind, ev.JobID, ev.FileName)
		}
	}
}

func (m *Manager) runDownload(job Job) {
	err := m.transport.Get(job.SourcePath, job.DestPath)
	m.events <- Completed{
		JobID:     job.ID,
		Kind:      job.Kind,
		FileName:  job.FileName,
		LocalPath: job.DestPath,
		Err:       err,
	}
}

type remoteFile struct {
	relPath string
	size    int64
}

// enumerateRemote walks a remote subtree depth first, collecting every
// file with its probed size. Unreadable directories list as empty and
// unparsable sizes count as zero, so enumeration itself cannot fail.
func (m *Manager) enumerateRemote(remoteRoot, rel string, files *[]remoteFile, totalBytes *int64) {
	current := remoteRoot
	if rel != "" {
		current = pathutil.JoinRemote(remoteRoot, rel)
	}
	for _, entry := range m.transport.List(current) {
		childRel := entry.Name
		if rel != "" {
			childRel = rel + "/" + entry.Name
		}
		if entry.IsDir {
			m.enumerateRemote(remoteRoot, childRel, files, totalBytes)
			continue
		}
		size, ok := m.transport.FileSize(pathutil.JoinRemote(remoteRoot, childRel))
		if !ok {
			size = 0
		}
		*files = append(*files, remoteFile{relPath: childRel, size: size})
		*totalBytes += size
	}
}

func (m *Manager) runFolderDownload(job Job) {
	var files []remoteFile
	var totalBytes int64
	m.enumerateRemote(job.SourcePath, "", &files, &totalBytes)

	m.events <- Progress{
		JobID:      job.ID,
		Label:      job.FileName,
		FilesTotal: len(files),
		BytesTotal: totalBytes,
	}

	var bytesDone int64
	for i, file := range files {
		localPath := filepath.Join(job.DestPath, filepath.FromSlash(file.relPath))
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			m.completeErr(job, err)
			return
		}
		remotePath := pathutil.JoinRemote(job.SourcePath, file.relPath)
		if err := m.transport.Get(remotePath, localPath); err != nil {
			m.completeErr(job, err)
			return
		}
		bytesDone += file.size
		m.events <- Progress{
			JobID:      job.ID,
			Label:      job.FileName,
			FilesDone:  i + 1,
			FilesTotal: len(files),
			BytesDone:  bytesDone,
			BytesTotal: totalBytes,
		}
	}

	m.events <- Completed{
		JobID:     job.ID,
		Kind:      job.Kind,
		FileName:  job.FileName,
		LocalPath: job.DestPath,
		Err:       nil,
	}
}

func (m *Manager) runUpload(job Job) {
	err := m.transport.Put(job.SourcePath, job.DestPath)
	m.events <- Completed{
		JobID:      job.ID,
		Kind:       job.Kind,
		FileName:   job.FileName,
		RemotePath: job.DestPath,
		Err:        err,
	}
}

func (m *Manager) runFolderUpload(job Job) {
	files, err := localfs.WalkFiles(job.SourcePath)
	if err != nil {
		m.completeErr(job, err)
		return
	}

	var totalBytes int64
	sizes := make([]int64, len(files))
	for i, rel := range files {
		sizes[i] = localfs.FileSize(filepath.Join(job.SourcePath, rel))
		totalBytes += sizes[i]
	}

	m.events <- Progress{
		JobID:      job.ID,
		Label:      job.FileName,
		FilesTotal: len(files),
		BytesTotal: totalBytes,
	}

	made := map[string]bool{}
	var bytesDone int64
	for i, rel := range files {
		remotePath := pathutil.JoinRemote(job.DestPath, filepath.ToSlash(rel))
		remoteDir := path.Dir(remotePath)
		if !made[remoteDir] {
			if err := m.transport.MkdirParents(remoteDir); err != nil {
				m.completeErr(job, err)
				return
			}
			made[remoteDir] = true
		}
		if err := m.transport.Put(filepath.Join(job.SourcePath, rel), remotePath); err != nil {
			m.completeErr(job, err)
			return
		}
		bytesDone += sizes[i]
		m.events <- Progress{
			JobID:      job.ID,
			Label:      job.FileName,
			FilesDone:  i + 1,
			FilesTotal: len(files),
			BytesDone:  bytesDone,
			BytesTotal: totalBytes,
		}
	}

	m.events <- Completed{
		JobID:      job.ID,
		Kind:       job.Kind,
		FileName:   job.FileName,
		RemotePath: job.DestPath,
		Err:        nil,
	}
}

func (m *Manager) completeErr(job Job, err error) {
	done := Completed{
		JobID:    job.ID,
		Kind:     job.Kind,
		FileName: job.FileName,
		Err:      err,
	}
	if job.Kind.IsDownload() {
		done.LocalPath = job.DestPath
	} else {
		done.RemotePath = job.DestPath
	}
	m.events <- done
}
