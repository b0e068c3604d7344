package domain

import (
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Diagnostics collects the warnings of one assembly run. A warning is emitted
// at most once per distinct message.
type Diagnostics struct {
	log  logrus.FieldLogger
	mu   sync.Mutex
	seen map[string]struct{}
	msgs []string
}

// NewDiagnostics creates a sink writing to log. A nil log discards output.
func NewDiagnostics(log logrus.FieldLogger) *Diagnostics {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Diagnostics{
		log:  log,
		seen: make(map[string]struct{}),
	}
}

// Warn emits msg unless the same message was already emitted in this run.
func (d *Diagnostics) Warn(msg string) {
	d.mu.Lock()
	_, dup := d.seen[msg]
	if !dup {
		d.seen[msg] = struct{}{}
		d.msgs = append(d.msgs, msg)
	}
	d.mu.Unlock()

	if !dup {
		d.log.Warn(msg)
	}
}

// Drop reports a variable excluded from the output.
func (d *Diagnostics) Drop(err error) {
	fields := logrus.Fields{"err": err}
	var verr *VariableError
	if errors.As(err, &verr) {
		fields["variable"] = verr.Variable
	}
	d.log.WithFields(fields).Warn("Dropping variable")
}

// Info logs a progress message.
func (d *Diagnostics) Info(msg string, fields logrus.Fields) {
	d.log.WithFields(fields).Info(msg)
}

// Warnings returns the distinct warnings emitted so far, in emission order.
func (d *Diagnostics) Warnings() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.msgs...)
}
