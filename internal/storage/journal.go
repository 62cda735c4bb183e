package storage

import (
	"context"
	"sync"
	"time"

	"github.com/nirarg/esxi-console/internal/console"
	"github.com/sirupsen/logrus"
)

const (
	journalWriteTimeout = 5 * time.Second
	journalQueueSize    = 64
)

// Journal records every action submission of a console session. Records
// are queued and written by a single background goroutine.
type Journal struct {
	db     *ConsoleDB
	logger *logrus.Logger

	mu      sync.RWMutex
	closed  bool
	records chan *SubmissionRecord
	done    chan struct{}
}

// NewJournal returns an observer that writes submissions to db. Close it
// before closing the database.
func NewJournal(db *ConsoleDB, logger *logrus.Logger) *Journal {
	j := &Journal{
		db:      db,
		logger:  logger,
		records: make(chan *SubmissionRecord, journalQueueSize),
		done:    make(chan struct{}),
	}
	go j.run()
	return j
}

// ActionSubmitted queues s. A full queue or a closed journal drops it.
func (j *Journal) ActionSubmitted(s console.Submission) {
	rec := &SubmissionRecord{
		View:        s.View,
		Action:      s.Action,
		Target:      s.Target,
		TaskID:      s.TaskID,
		Message:     s.Message,
		Success:     s.Err == nil,
		SubmittedAt: s.At,
	}
	if s.Err != nil {
		rec.Error = s.Err.Error()
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return
	}
	select {
	case j.records <- rec:
	default:
		j.logger.WithFields(logrus.Fields{
			"view":   s.View,
			"action": s.Action,
		}).Warn("Journal queue full, submission not recorded")
	}
}

func (j *Journal) FetchCompleted(string, time.Duration, error) {}

func (j *Journal) FastWindowChanged(string, bool) {}

// Close writes the queued records and stops the writer
func (j *Journal) Close() {
	j.mu.Lock()
	if !j.closed {
		j.closed = true
		close(j.records)
	}
	j.mu.Unlock()
	<-j.done
}

func (j *Journal) run() {
	defer close(j.done)
	for rec := range j.records {
		j.write(rec)
	}
}

func (j *Journal) write(rec *SubmissionRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()
	if err := j.db.AddSubmission(ctx, rec); err != nil {
		j.logger.WithError(err).WithFields(logrus.Fields{
			"view":   rec.View,
			"action": rec.Action,
		}).Warn("Failed to journal submission")
	}
}
