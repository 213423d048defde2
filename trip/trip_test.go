package trip

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

// TestTrip_Core tests core Trip functionality
func TestTrip_Core(t *testing.T) {
	context := Context{
		"slot_count": 6,
		"titles":     5,
	}

	trip := NewTrip(Configuration, "title count does not match slot count", context)

	assert.Equal(t, Configuration, trip.Type)
	assert.Equal(t, "title count does not match slot count", trip.Message)
	assert.Equal(t, context, trip.Context)
	assert.Equal(t, Error, trip.Severity)
	assert.WithinDuration(t, time.Now(), trip.Timestamp, time.Second)

	assert.Contains(t, trip.Error(), "title count")
	assert.Contains(t, trip.Error(), Configuration)
	assert.Contains(t, trip.Error(), "error")
}

// TestTrip_Severities tests different severity levels
func TestTrip_Severities(t *testing.T) {
	stumble := NewStumble(InvalidDirection, "direction must be -1 or +1", nil)
	error_ := NewTrip("render", "frame failed", nil)
	fall := NewFall(InvalidSlotIndex, "slot 9 out of range", nil)

	assert.Equal(t, Stumble, stumble.Severity)
	assert.Equal(t, Error, error_.Severity)
	assert.Equal(t, Fall, fall.Severity)

	assert.True(t, stumble.CanRecover())
	assert.False(t, error_.CanRecover())
	assert.False(t, fall.CanRecover())

	assert.False(t, stumble.IsFall())
	assert.False(t, error_.IsFall())
	assert.True(t, fall.IsFall())
}

// TestTrip_Wrap tests sentinel matching through the trip
func TestTrip_Wrap(t *testing.T) {
	trip := NewStumble(InvalidDirection, "bad direction", nil).Wrap(errSentinel)

	assert.True(t, errors.Is(trip, errSentinel))

	var target *Trip
	require.True(t, errors.As(error(trip), &target))
	assert.Equal(t, InvalidDirection, target.Type)

	assert.Nil(t, NewTrip("x", "y", nil).Unwrap())
}

// TestTrip_Methods tests trip methods
func TestTrip_Methods(t *testing.T) {
	trip := NewTrip("test", "Test message", Context{"b": 2, "a": 1})

	trip.WithSeverity(Fall)
	assert.Equal(t, Fall, trip.Severity)

	val, exists := trip.GetContext("a")
	assert.True(t, exists)
	assert.Equal(t, 1, val)

	_, exists = trip.GetContext("missing")
	assert.False(t, exists)

	detailed := trip.DetailedString()
	assert.Contains(t, detailed, "Test message")
	assert.Less(t, strings.Index(detailed, "a: 1"), strings.Index(detailed, "b: 2"))
}

// TestHandler_Basic tests basic Handler functionality
func TestHandler_Basic(t *testing.T) {
	handler := NewHandler("gallery", DefaultPolicy())

	assert.True(t, handler.ShouldContinue())
	assert.Nil(t, handler.Last())
	assert.Contains(t, handler.Summary(), "no issues")

	stumble := NewStumble(InvalidDirection, "Minor issue", nil)
	handler.Record(stumble)
	assert.True(t, handler.ShouldContinue())
	assert.True(t, handler.HasStumbles())
	assert.False(t, handler.HasTrips())
	assert.Same(t, stumble, handler.Last())

	fall := NewFall(Configuration, "Critical error", nil)
	handler.Record(fall)
	assert.False(t, handler.ShouldContinue())
	assert.Same(t, fall, handler.Last())
	assert.Equal(t, "[gallery] 1 trips, 1 stumbles", handler.Summary())

	report := handler.DetailedReport()
	assert.Contains(t, report, "Trips:")
	assert.Contains(t, report, "Stumbles:")
}

// TestHandler_MaxStumbles tests the stumble ceiling
func TestHandler_MaxStumbles(t *testing.T) {
	handler := NewHandler("window", &Policy{MaxStumbles: 2})

	for i := 0; i < 2; i++ {
		handler.Record(NewStumble(InvalidDirection, "again", nil))
	}
	assert.True(t, handler.ShouldContinue())

	handler.Record(NewStumble(InvalidDirection, "once more", nil))
	assert.False(t, handler.ShouldContinue())
	assert.Len(t, handler.GetStumbles(), 3)
	assert.Empty(t, handler.GetTrips())
}

// TestPolicy_Default tests default policy
func TestPolicy_Default(t *testing.T) {
	policy := DefaultPolicy()

	assert.True(t, policy.StopOnFall)
	assert.Equal(t, 0, policy.MaxStumbles)
	assert.NotNil(t, NewHandler("nil-policy", nil).policy)
}

// TestSeverity_String tests severity string representation
func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "stumble", Stumble.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "fall", Fall.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
