package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

const (
	defaultBatchSize = 10
	flushInterval    = time.Minute
	filePattern      = "account_audit_*.log"
)

// AccountAuditor buffers account actions and appends them as JSON lines to
// one file per day, named after the entry's timestamp.
type AccountAuditor struct {
	dir       string
	batchSize int
	now       func() time.Time

	pendingMu sync.Mutex
	pending   []AuditLog
	timer     *time.Timer

	fileMu sync.Mutex
}

type AuditorOption func(*AccountAuditor)

func WithBatchSize(n int) AuditorOption {
	return func(a *AccountAuditor) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

func WithClock(now func() time.Time) AuditorOption {
	return func(a *AccountAuditor) {
		a.now = now
	}
}

func NewAccountAuditor(dir string, opts ...AuditorOption) (*AccountAuditor, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, goerr.Wrap(err, "failed to create audit log directory", goerr.V("dir", dir))
	}

	a := &AccountAuditor{
		dir:       dir,
		batchSize: defaultBatchSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.pending = make([]AuditLog, 0, a.batchSize)

	// a batch that never fills is still written within a minute
	a.timer = time.AfterFunc(flushInterval, func() {
		_ = a.Flush()
	})

	return a, nil
}

// FileFor returns the log file an entry recorded at t is written to
func (a *AccountAuditor) FileFor(t time.Time) string {
	return filepath.Join(a.dir, "account_audit_"+t.Format("2006-01-02")+".log")
}

// LogAccountAction queues an entry and flushes once the batch is full
func (a *AccountAuditor) LogAccountAction(action AuditAction, accountID string, details map[string]any) error {
	entry := AuditLog{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Action:    action,
		Timestamp: a.now(),
		Details:   details,
	}

	a.pendingMu.Lock()
	a.pending = append(a.pending, entry)
	full := len(a.pending) >= a.batchSize
	a.pendingMu.Unlock()

	if full {
		return a.Flush()
	}
	return nil
}

// Flush writes every pending entry
func (a *AccountAuditor) Flush() error {
	entries := a.takePending()
	if len(entries) == 0 {
		return nil
	}

	byFile := make(map[string][]AuditLog)
	var order []string
	for _, entry := range entries {
		path := a.FileFor(entry.Timestamp)
		if _, ok := byFile[path]; !ok {
			order = append(order, path)
		}
		byFile[path] = append(byFile[path], entry)
	}

	a.fileMu.Lock()
	defer a.fileMu.Unlock()

	for _, path := range order {
		if err := appendEntries(path, byFile[path]); err != nil {
			return err
		}
	}
	return nil
}

func (a *AccountAuditor) takePending() []AuditLog {
	a.pendingMu.Lock()
	defer a.pendingMu.Unlock()

	if a.timer != nil {
		a.timer.Reset(flushInterval)
	}
	if len(a.pending) == 0 {
		return nil
	}

	entries := make([]AuditLog, len(a.pending))
	copy(entries, a.pending)
	a.pending = a.pending[:0]
	return entries
}

func appendEntries(path string, entries []AuditLog) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return goerr.Wrap(err, "failed to open audit log file", goerr.V("path", path))
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			return goerr.Wrap(err, "failed to write audit log", goerr.V("path", path), goerr.V("id", entry.ID))
		}
	}

	if err := w.Flush(); err != nil {
		return goerr.Wrap(err, "failed to write audit log", goerr.V("path", path))
	}
	return nil
}

// GetAccountHistory returns every entry recorded for accountID across all
// daily files, oldest first. Pending entries are flushed first.
func (a *AccountAuditor) GetAccountHistory(accountID string) ([]AuditLog, error) {
	if err := a.Flush(); err != nil {
		return nil, err
	}

	a.fileMu.Lock()
	defer a.fileMu.Unlock()

	files, err := filepath.Glob(filepath.Join(a.dir, filePattern))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list audit log files", goerr.V("dir", a.dir))
	}
	sort.Strings(files)

	var logs []AuditLog
	for _, path := range files {
		entries, err := readEntries(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.AccountID == accountID {
				logs = append(logs, entry)
			}
		}
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.Before(logs[j].Timestamp)
	})
	return logs, nil
}

func readEntries(path string) ([]AuditLog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open audit log file", goerr.V("path", path))
	}
	defer file.Close()

	var entries []AuditLog
	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var entry AuditLog
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, goerr.Wrap(err, "corrupt audit log entry", goerr.V("path", path), goerr.V("line", line))
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read audit log file", goerr.V("path", path))
	}

	return entries, nil
}

// Close stops the timer and writes pending entries
func (a *AccountAuditor) Close() error {
	if a.timer != nil {
		a.timer.Stop()
	}
	return a.Flush()
}
