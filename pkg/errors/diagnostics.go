package errors

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Validation warning codes. A warning never aborts a render.
const (
	WarnUnusedGroup       Code = "UNUSED_GROUP"
	WarnLegendDisabled    Code = "LEGEND_DISABLED"
	WarnUnsupportedAlign  Code = "UNSUPPORTED_ALIGN"
	WarnUnsupportedOption Code = "UNSUPPORTED_OPTION"
)

// Diagnostic is a single recorded validation warning.
type Diagnostic struct {
	Code    Code
	Subject string // id of the column, legend, palette or group concerned
	Message string
}

func (d Diagnostic) String() string {
	if d.Subject == "" {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Code, d.Subject, d.Message)
}

// Diagnostics collects validation warnings and forwards them to a logger.
// A nil *Diagnostics is valid and discards everything.
type Diagnostics struct {
	mu     sync.Mutex
	logger *log.Logger
	items  []Diagnostic
}

// NewDiagnostics creates a collector. If logger is nil, warnings are only recorded.
func NewDiagnostics(logger *log.Logger) *Diagnostics {
	return &Diagnostics{logger: logger}
}

// Warn records a warning about subject and logs it at warn level.
func (d *Diagnostics) Warn(code Code, subject, format string, args ...any) {
	if d == nil {
		return
	}
	diag := Diagnostic{Code: code, Subject: subject, Message: fmt.Sprintf(format, args...)}
	d.mu.Lock()
	d.items = append(d.items, diag)
	d.mu.Unlock()
	if d.logger != nil {
		d.logger.Warn(diag.Message, "code", code, "subject", subject)
	}
}

// Info logs an informational message about a default being applied.
// Info messages are not recorded.
func (d *Diagnostics) Info(format string, args ...any) {
	if d == nil || d.logger == nil {
		return
	}
	d.logger.Infof(format, args...)
}

// Debug logs a debug message. Debug messages are not recorded.
func (d *Diagnostics) Debug(format string, args ...any) {
	if d == nil || d.logger == nil {
		return
	}
	d.logger.Debugf(format, args...)
}

// Items returns a copy of the recorded warnings in insertion order.
func (d *Diagnostics) Items() []Diagnostic {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Diagnostic(nil), d.items...)
}

// Has reports whether a warning with the given code was recorded.
func (d *Diagnostics) Has(code Code) bool {
	for _, item := range d.Items() {
		if item.Code == code {
			return true
		}
	}
	return false
}

// Logger returns the attached logger, which may be nil.
func (d *Diagnostics) Logger() *log.Logger {
	if d == nil {
		return nil
	}
	return d.logger
}
