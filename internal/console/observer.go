package console

import (
	"time"

	"github.com/nirarg/esxi-console/pkg/types"
)

// View names used when reporting to an Observer
const (
	ViewTasks       = "tasks"
	ViewVMs         = "vms"
	ViewHosts       = "hosts"
	ViewDashboard   = "dashboard"
	ViewCredentials = "credentials"
)

// Submission describes a mutating request the console sent to the backend
type Submission struct {
	View    string
	Action  string
	Target  string
	TaskID  string
	Message string
	Err     error
	At      time.Time
}

// Observer receives fetch and submission outcomes. Implementations must be
// safe for concurrent use and must not block: slow work such as storage
// writes belongs on a goroutine of their own.
type Observer interface {
	FetchCompleted(view string, elapsed time.Duration, err error)
	ActionSubmitted(s Submission)
	FastWindowChanged(view string, active bool)
}

type nopObserver struct{}

func (nopObserver) FetchCompleted(string, time.Duration, error) {}
func (nopObserver) ActionSubmitted(Submission)                  {}
func (nopObserver) FastWindowChanged(string, bool)              {}

type multiObserver []Observer

func (m multiObserver) FetchCompleted(view string, elapsed time.Duration, err error) {
	for _, o := range m {
		o.FetchCompleted(view, elapsed, err)
	}
}

func (m multiObserver) ActionSubmitted(s Submission) {
	for _, o := range m {
		o.ActionSubmitted(s)
	}
}

func (m multiObserver) FastWindowChanged(view string, active bool) {
	for _, o := range m {
		o.FastWindowChanged(view, active)
	}
}

// Observers combines several observers into one. Nil entries are skipped.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return nopObserver{}
	case 1:
		return m[0]
	}
	return m
}

func submission(view, action, target string, resp *types.AsyncTaskResponse, err error) Submission {
	s := Submission{View: view, Action: action, Target: target, Err: err, At: time.Now()}
	if resp != nil {
		s.TaskID = resp.TaskID
		s.Message = resp.Message
	}
	return s
}
