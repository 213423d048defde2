package carousel

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/teranos/carousel/trip"
)

// Ring is the fixed geometry of the carousel: N slots at equal angular
// spacing around the vertical axis. A Ring is immutable after creation.
//
// Slot i sits at AngleOfSlot(i). Rotating the ring to AngleOfSlot(i) brings
// slot i in front of the camera, so renderers place slot i at
// ringAngle - AngleOfSlot(i).
type Ring struct {
	count int
	sign  float64
}

// NewRing builds a ring of slotCount slots. sign selects the rotational
// direction of increasing index: +1 counter-clockwise, -1 clockwise.
func NewRing(slotCount int, sign int) (*Ring, error) {
	if slotCount <= 0 {
		return nil, trip.NewFall(trip.Configuration, "slot count must be positive",
			trip.Context{"slot_count": slotCount}).Wrap(ErrConfiguration)
	}
	if sign != 1 && sign != -1 {
		return nil, trip.NewFall(trip.Configuration, "rotation sign must be -1 or +1",
			trip.Context{"sign": sign}).Wrap(ErrConfiguration)
	}
	return &Ring{count: slotCount, sign: float64(sign)}, nil
}

// Count returns the number of slots.
func (r *Ring) Count() int { return r.count }

// Sign returns the rotation direction of increasing index.
func (r *Ring) Sign() int { return int(r.sign) }

// Step returns the signed angle between neighbouring slots.
func (r *Ring) Step() float64 {
	return r.sign * 2 * math.Pi / float64(r.count)
}

// AngleOfSlot returns the angle of slot i. Out-of-range indices fail with
// ErrInvalidSlotIndex rather than being clamped.
func (r *Ring) AngleOfSlot(i int) (float64, error) {
	if err := r.checkIndex(i); err != nil {
		return 0, err
	}
	return float64(i) * r.Step(), nil
}

// Wrap maps any integer onto [0, Count).
func (r *Ring) Wrap(i int) int {
	return ((i % r.count) + r.count) % r.count
}

// IndexForAngle returns the slot facing the camera when the ring is rotated
// to angle. It is derived state for renderers, never a source of truth.
func (r *Ring) IndexForAngle(angle float64) int {
	return r.Wrap(int(math.Round(angle / r.Step())))
}

// SlotTransform returns the local transform of slot i when the ring is rotated
// to ringAngle: a rotation about Y followed by a push of depth units away
// from the axis along -Z, matching an artwork hung on a base node.
func (r *Ring) SlotTransform(i int, ringAngle float64, depth float32) (mgl32.Mat4, error) {
	slotAngle, err := r.AngleOfSlot(i)
	if err != nil {
		return mgl32.Ident4(), err
	}
	rot := mgl32.HomogRotate3DY(float32(ringAngle - slotAngle))
	return rot.Mul4(mgl32.Translate3D(0, 0, -depth)), nil
}

func (r *Ring) checkIndex(i int) error {
	if i < 0 || i >= r.count {
		return trip.NewFall(trip.InvalidSlotIndex,
			fmt.Sprintf("slot %d outside [0, %d)", i, r.count),
			trip.Context{"index": i, "slot_count": r.count}).Wrap(ErrInvalidSlotIndex)
	}
	return nil
}
