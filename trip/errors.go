// Package trip provides the error vocabulary for the carousel.
//
// A trip is a navigation or configuration failure with structured context.
// Rejected navigation requests are stumbles: the carousel keeps its state and
// carries on. Configuration and slot-index mistakes are falls: they indicate a
// mismatch between what the host asked for and what the ring was built with.
package trip

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Trip types raised by the carousel.
const (
	InvalidSlotIndex = "invalid_slot_index"
	Configuration    = "configuration"
	InvalidDirection = "invalid_direction"
)

// Trip represents a carousel error with rich context.
//
// Example usage:
//
//	err := NewStumble(InvalidDirection, "direction must be -1 or +1",
//	    Context{"direction": 2}).Wrap(ErrInvalidDirection)
//
//	if err.CanRecover() {
//	    // navigation state is untouched, keep going
//	}
type Trip struct {
	Type      string    // Error category
	Message   string    // Human-readable description
	Context   Context   // Additional debugging information
	Timestamp time.Time // When the error occurred
	Severity  Severity  // How serious this error is
	Err       error     // Wrapped sentinel, if any
}

// Context provides structured debugging information for trips.
type Context map[string]interface{}

// Severity indicates how serious a trip is and how it should be handled.
type Severity int

const (
	// Stumble indicates a rejected request that left state intact.
	// Examples: non-unit navigation direction
	Stumble Severity = iota

	// Error indicates a significant issue the caller should surface.
	Error

	// Fall indicates a programming or configuration error.
	// Examples: title count mismatch, slot index out of range
	Fall
)

func (s Severity) String() string {
	switch s {
	case Stumble:
		return "stumble"
	case Error:
		return "error"
	case Fall:
		return "fall"
	default:
		return "unknown"
	}
}

// NewTrip creates a new trip with the current timestamp.
func NewTrip(errorType, message string, context Context) *Trip {
	return &Trip{
		Type:      errorType,
		Message:   message,
		Context:   context,
		Timestamp: time.Now(),
		Severity:  Error, // Default severity
	}
}

// NewStumble creates a new trip with Stumble severity.
func NewStumble(errorType, message string, context Context) *Trip {
	return NewTrip(errorType, message, context).WithSeverity(Stumble)
}

// NewFall creates a new trip with Fall severity.
func NewFall(errorType, message string, context Context) *Trip {
	return NewTrip(errorType, message, context).WithSeverity(Fall)
}

// WithSeverity sets the severity level for this error.
func (t *Trip) WithSeverity(severity Severity) *Trip {
	t.Severity = severity
	return t
}

// Wrap records the underlying error so errors.Is and errors.As see through the trip.
func (t *Trip) Wrap(err error) *Trip {
	t.Err = err
	return t
}

// Error implements the error interface.
func (t *Trip) Error() string {
	return fmt.Sprintf("[%s:%s] %s", t.Type, t.Severity, t.Message)
}

// Unwrap returns the wrapped sentinel.
func (t *Trip) Unwrap() error {
	return t.Err
}

// CanRecover returns true if the carousel can continue despite this error.
func (t *Trip) CanRecover() bool {
	return t.Severity == Stumble
}

// IsFall returns true if this error should stop the host.
func (t *Trip) IsFall() bool {
	return t.Severity == Fall
}

// GetContext returns a specific context value if it exists.
func (t *Trip) GetContext(key string) (interface{}, bool) {
	if t.Context == nil {
		return nil, false
	}
	val, exists := t.Context[key]
	return val, exists
}

// DetailedString returns a comprehensive error description with context.
// Context keys are printed in sorted order.
func (t *Trip) DetailedString() string {
	var details strings.Builder

	details.WriteString(t.Error())
	details.WriteString(fmt.Sprintf("\n  Time: %s", t.Timestamp.Format("15:04:05.000")))

	if len(t.Context) > 0 {
		keys := make([]string, 0, len(t.Context))
		for key := range t.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		details.WriteString("\n  Context:")
		for _, key := range keys {
			details.WriteString(fmt.Sprintf("\n    %s: %v", key, t.Context[key]))
		}
	}

	return details.String()
}

// Handler collects trips raised while a carousel host is running.
//
// Stumbles accumulate without stopping anything; a fall, or too many
// stumbles, tells the host to stop.
type Handler struct {
	component string  // Component name (e.g., "gallery", "window")
	trips     []*Trip // Collected errors in chronological order
	stumbles  []*Trip // Collected minor issues in chronological order
	last      *Trip
	policy    *Policy
}

// Policy defines how trips of different severities are handled.
type Policy struct {
	// StopOnFall determines if the host should stop on fall errors
	StopOnFall bool

	// MaxStumbles sets a limit on accumulated stumbles (0 = unlimited)
	MaxStumbles int
}

// DefaultPolicy stops on falls and never on stumbles.
func DefaultPolicy() *Policy {
	return &Policy{
		StopOnFall:  true,
		MaxStumbles: 0,
	}
}

// NewHandler creates a new error handler for a specific component.
func NewHandler(component string, policy *Policy) *Handler {
	if policy == nil {
		policy = DefaultPolicy()
	}

	return &Handler{
		component: component,
		trips:     make([]*Trip, 0),
		stumbles:  make([]*Trip, 0),
		policy:    policy,
	}
}

// Record adds an error to the handler's collection.
func (h *Handler) Record(trip *Trip) {
	if trip.Severity == Stumble {
		h.stumbles = append(h.stumbles, trip)
	} else {
		h.trips = append(h.trips, trip)
	}
	h.last = trip
}

// ShouldContinue determines if the host should keep running.
func (h *Handler) ShouldContinue() bool {
	if h.policy.StopOnFall {
		for _, trip := range h.trips {
			if trip.IsFall() {
				return false
			}
		}
	}

	if h.policy.MaxStumbles > 0 && len(h.stumbles) > h.policy.MaxStumbles {
		return false
	}

	return true
}

// HasTrips returns true if any errors (non-stumbles) have been recorded.
func (h *Handler) HasTrips() bool {
	return len(h.trips) > 0
}

// HasStumbles returns true if any stumbles have been recorded.
func (h *Handler) HasStumbles() bool {
	return len(h.stumbles) > 0
}

// GetTrips returns all recorded errors.
func (h *Handler) GetTrips() []*Trip {
	return h.trips
}

// GetStumbles returns all recorded stumbles.
func (h *Handler) GetStumbles() []*Trip {
	return h.stumbles
}

// Last returns the most recently recorded trip of any severity.
func (h *Handler) Last() *Trip {
	return h.last
}

// Summary provides a concise overview of all errors and stumbles.
func (h *Handler) Summary() string {
	if len(h.trips) == 0 && len(h.stumbles) == 0 {
		return fmt.Sprintf("[%s] no issues", h.component)
	}

	return fmt.Sprintf("[%s] %d trips, %d stumbles",
		h.component, len(h.trips), len(h.stumbles))
}

// DetailedReport provides a comprehensive report of all issues.
func (h *Handler) DetailedReport() string {
	var report strings.Builder

	report.WriteString(fmt.Sprintf("=== %s report ===\n", h.component))
	report.WriteString(h.Summary() + "\n")

	if len(h.trips) > 0 {
		report.WriteString("\nTrips:\n")
		for i, trip := range h.trips {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, trip.DetailedString()))
		}
	}

	if len(h.stumbles) > 0 {
		report.WriteString("\nStumbles:\n")
		for i, stumble := range h.stumbles {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, stumble.DetailedString()))
		}
	}

	return report.String()
}
