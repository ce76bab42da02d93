package mqttsn

import (
	"log"
	"time"

	"github.com/mqtt-sn/broker/packet"
)

// DefaultWheelTick is the tick period shared by the retransmit and
// keep-alive wheels (§4.3 default 100 ms).
const DefaultWheelTick = 100 * time.Millisecond

// DefaultWheelSpan is (1000/tick_ms) × 64 × 2 for the default 100 ms tick,
// giving a wheel span of about 128 s (§3).
const DefaultWheelSpan = (1000 / 100) * 64 * 2

// DefaultRetransmitDelay is the first backoff delay d in the sequence
// d, 2d, 4d, ... (§4.3).
const DefaultRetransmitDelay = 1 * time.Second

// RetransmitKey identifies one pending retransmission (§3): the
// destination endpoint, the PDU type the broker is waiting to see as an
// ack, and, where applicable, the topic-id/msg-id pair. Topic-id and
// msg-id default to 0 when the PDU being retransmitted carries neither.
type RetransmitKey struct {
	Endpoint  Endpoint
	ExpectAck byte
	TopicID   uint16
	MsgID     uint16
}

type retransmitPayload struct {
	data  []byte
	delay time.Duration
}

// RetransmitWheel is the C4 component: it re-emits an encoded PDU with
// exponential backoff until the expected ack cancels it, or the backoff
// would exceed the wheel's span, at which point the retransmit is
// permanently abandoned (§4.3).
type RetransmitWheel struct {
	w       *wheel[RetransmitKey, retransmitPayload]
	egress  *queue[egressFrame]
	onDrop  func(RetransmitKey)
	onRetry func(RetransmitKey)
}

// NewRetransmitWheel builds a retransmit wheel that writes re-sent PDUs to
// egress. onRetry and onDrop are optional hooks (stats, logging) invoked
// on every retry and permanent failure respectively. tick is the wheel's
// tick period; pass 0 to use DefaultWheelTick.
func NewRetransmitWheel(tick time.Duration, egress *queue[egressFrame], onRetry, onDrop func(RetransmitKey)) *RetransmitWheel {
	if tick <= 0 {
		tick = DefaultWheelTick
	}
	return &RetransmitWheel{
		w:       newWheel[RetransmitKey, retransmitPayload](tick, DefaultWheelSpan),
		egress:  egress,
		onRetry: onRetry,
		onDrop:  onDrop,
	}
}

// withDupSet returns a copy of an encoded PUBLISH with the DUP bit set in
// its flags octet (§4.5 "DUP flag on sender retransmits is set on any
// second and later transmission of the same PUBLISH"). data's leading
// bytes are the length header (2 or 4 bytes, depending on form); the
// PUBLISH body's first field is always Flags.
func withDupSet(data []byte) []byte {
	headerLen := 2
	if len(data) > 0 && data[0] == 0x01 {
		headerLen = 4
	}
	if len(data) <= headerLen {
		return data
	}
	out := append([]byte(nil), data...)
	out[headerLen] |= 0x80
	return out
}

func ticksFor(w *wheel[RetransmitKey, retransmitPayload], d time.Duration) uint64 {
	ticks := uint64(d / w.Tick())
	if ticks == 0 {
		ticks = 1
	}
	return ticks
}

// Arm schedules the first retransmit of data, keyed by key, after
// DefaultRetransmitDelay (§4.3 "A successful schedule guarantees at least
// one retry attempt after the initial transmission").
func (r *RetransmitWheel) Arm(key RetransmitKey, data []byte) {
	r.w.Schedule(key, ticksFor(r.w, DefaultRetransmitDelay), retransmitPayload{data: data, delay: DefaultRetransmitDelay})
}

// Cancel cancels a pending retransmit. Idempotent (§4.3).
func (r *RetransmitWheel) Cancel(key RetransmitKey) {
	r.w.Cancel(key)
}

// Run drives the wheel until done is closed, re-emitting fired PDUs to
// egress with doubled backoff, or dropping them once the next backoff
// would meet or exceed the wheel's span (§4.3).
func (r *RetransmitWheel) Run(done <-chan struct{}) {
	r.w.Run(done, func(firedEntries []fired[RetransmitKey, retransmitPayload]) {
		for _, f := range firedEntries {
			next := f.Value.delay * 2
			if ticksFor(r.w, next) >= r.w.Span() {
				log.Printf("mqtt-sn: retransmit abandoned: endpoint=%s expect=0x%02x topic=%d msg=%d", f.Key.Endpoint, f.Key.ExpectAck, f.Key.TopicID, f.Key.MsgID)
				if r.onDrop != nil {
					r.onDrop(f.Key)
				}
				continue
			}
			r.w.Schedule(f.Key, ticksFor(r.w, next), retransmitPayload{data: f.Value.data, delay: next})

			data := f.Value.data
			if f.Key.ExpectAck == packet.PUBACK || f.Key.ExpectAck == packet.PUBREC {
				data = withDupSet(data)
			}
			r.egress.push(egressFrame{to: f.Key.Endpoint, data: data})
			if r.onRetry != nil {
				r.onRetry(f.Key)
			}
		}
	})
}
