package mqttsn

import (
	"testing"
	"time"
)

// TestWheelScheduleReplacesExisting covers §3's retransmit-key invariant:
// "a second schedule with the same key replaces the first."
func TestWheelScheduleReplacesExisting(t *testing.T) {
	w := newWheel[string, int](0, 8)
	w.Schedule("k", 3, 1)
	w.Schedule("k", 5, 2)

	for i := 0; i < 2; i++ {
		if fired := w.Advance(); len(fired) != 0 {
			t.Fatalf("tick %d: unexpected early fire: %+v", i, fired)
		}
	}
	// Ticks 3 and 4: tick 3 reads the stale slot, whose key is an orphan.
	for i := 0; i < 2; i++ {
		if fired := w.Advance(); len(fired) != 0 {
			t.Fatalf("tick %d: stale slot should be an orphan: %+v", i, fired)
		}
	}
	fired := w.Advance()
	if len(fired) != 1 || fired[0].Value != 2 {
		t.Fatalf("expected replaced value 2 at the rescheduled tick, got %+v", fired)
	}
}

// TestWheelCancelIsIdempotent covers §4.3 "Cancellation is idempotent".
func TestWheelCancelIsIdempotent(t *testing.T) {
	w := newWheel[string, int](0, 8)
	w.Cancel("never-scheduled")
	w.Schedule("k", 2, 1)
	w.Cancel("k")
	w.Cancel("k")
	for i := 0; i < 3; i++ {
		if fired := w.Advance(); len(fired) != 0 {
			t.Fatalf("cancelled key fired: %+v", fired)
		}
	}
}

// TestWheelTouchMovesNoSlot covers §4.4: Touch updates the recorded value
// without moving the key's slot placement.
func TestWheelTouchMovesNoSlot(t *testing.T) {
	w := newWheel[string, int](0, 8)
	w.Schedule("k", 2, 1)
	if !w.Touch("k", 2) {
		t.Fatal("Touch on a scheduled key should succeed")
	}
	if v, ok := w.Peek("k"); !ok || v != 2 {
		t.Fatalf("expected updated value 2, got %v ok=%v", v, ok)
	}
	w.Advance()
	fired := w.Advance()
	if len(fired) != 1 || fired[0].Value != 2 {
		t.Fatalf("expected fire at the original slot with the touched value, got %+v", fired)
	}
}

func TestWheelTouchUnknownKeyIsNoop(t *testing.T) {
	w := newWheel[string, int](0, 8)
	if w.Touch("ghost", 9) {
		t.Fatal("Touch on an unscheduled key must report false")
	}
}

// TestRetransmitCancelBeforeFireSuppressesRetry covers the §8 law
// "if an ACK is processed before the retransmit fires, no retransmission
// of the acknowledged PDU is emitted." Arm/Cancel go through the real
// RetransmitWheel API; advancing the underlying wheel past the arming
// slot then checks that the orphaned aux entry never resurfaces as a
// fired value, which is the mechanism Run's egress push depends on.
func TestRetransmitCancelBeforeFireSuppressesRetry(t *testing.T) {
	rw := NewRetransmitWheel(time.Millisecond, newQueue[egressFrame](), nil, nil)
	key := RetransmitKey{Endpoint: Endpoint{Port: 1}, ExpectAck: 0x0D, MsgID: 7}
	rw.Arm(key, []byte{0x05, 0x0D})
	rw.Cancel(key)

	for i := 0; i < int(rw.w.Span())+1; i++ {
		for _, f := range rw.w.Advance() {
			t.Fatalf("cancelled key fired after %d ticks: %+v", i, f)
		}
	}
}
