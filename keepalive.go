package mqttsn

import (
	"log"
	"time"

	"github.com/mqtt-sn/broker/internal/topic"
)

type keepAlivePayload struct {
	latestCounter uint64
	durationTicks uint64
}

// willPublisher is the subset of the PUBLISH pipeline (C6) the keep-alive
// wheel needs to publish a lost connection's will message.
type willPublisher interface {
	PublishWill(topicName []byte, qos int8, message []byte)
}

// KeepAliveWheel is the C5 component: one entry per Active/Asleep/Awake
// connection, keyed solely by endpoint (§4.4).
type KeepAliveWheel struct {
	w        *wheel[Endpoint, keepAlivePayload]
	registry *Registry
	index    *topic.Index
	pipeline willPublisher
}

// NewKeepAliveWheel builds the keep-alive wheel. tick is the wheel's tick
// period; pass 0 to use DefaultWheelTick.
func NewKeepAliveWheel(tick time.Duration, registry *Registry, index *topic.Index, pipeline willPublisher) *KeepAliveWheel {
	if tick <= 0 {
		tick = DefaultWheelTick
	}
	return &KeepAliveWheel{
		w:        newWheel[Endpoint, keepAlivePayload](tick, DefaultWheelSpan),
		registry: registry,
		index:    index,
		pipeline: pipeline,
	}
}

func durationTicks(w *wheel[Endpoint, keepAlivePayload], seconds uint16) uint64 {
	ticks := uint64(seconds) * uint64(time.Second/w.Tick())
	if ticks == 0 {
		ticks = 1
	}
	return ticks
}

// Arm schedules (or re-schedules) ep's liveness timer at
// keep_alive_duration seconds from now (§4.4; durationTicks already
// converts the duration from seconds to ticks, so no further scaling
// belongs here).
func (k *KeepAliveWheel) Arm(ep Endpoint, keepAliveSeconds uint16) {
	d := durationTicks(k.w, keepAliveSeconds)
	k.w.Schedule(ep, d, keepAlivePayload{latestCounter: k.w.Current(), durationTicks: d})
}

// Touch updates ep's latest_counter in place without moving its slot
// (§4.4 "it does not remove and reinsert").
func (k *KeepAliveWheel) Touch(ep Endpoint) {
	if payload, ok := k.w.Peek(ep); ok {
		payload.latestCounter = k.w.Current()
		k.w.Touch(ep, payload)
	}
}

// Cancel removes ep's liveness timer, e.g. on explicit DISCONNECT.
func (k *KeepAliveWheel) Cancel(ep Endpoint) {
	k.w.Cancel(ep)
}

// Run drives the wheel until done is closed.
func (k *KeepAliveWheel) Run(done <-chan struct{}) {
	k.w.Run(done, func(firedEntries []fired[Endpoint, keepAlivePayload]) {
		current := k.w.Current()
		for _, f := range firedEntries {
			deadline := f.Value.latestCounter + f.Value.durationTicks
			if deadline > current {
				k.w.Schedule(f.Key, deadline-current, f.Value)
				continue
			}
			k.expire(f.Key)
		}
	})
}

func (k *KeepAliveWheel) expire(ep Endpoint) {
	conn, ok := k.registry.Get(ep)
	if !ok {
		return
	}
	log.Printf("mqtt-sn: keep-alive expired, connection lost: endpoint=%s client=%q", ep, conn.ClientID)
	k.registry.SetState(conn, StateLost)
	if len(conn.WillTopic) > 0 {
		k.pipeline.PublishWill(conn.WillTopic, conn.WillQoS, conn.WillMessage)
	}
	k.index.RemoveEndpoint(topic.Endpoint(ep))
	k.registry.Remove(ep)
}
