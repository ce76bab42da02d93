package mqttsn

import (
	"fmt"

	"github.com/mqtt-sn/broker/packet"
)

// handlePublish implements §4.6's PUBLISH row by routing to the pipeline
// per QoS (§4.5). Short/reserved topic-id types are out of scope (§9) and
// are logged and dropped rather than acked.
//
// A nil c is valid here for a QoS-0 PUBLISH only (§4.7: the ingress
// worker accepts PUBLISH from an unregistered endpoint "only for QoS-0
// publishes from stateless publishers"); any other PDU kind never
// reaches a handler with c == nil.
func handlePublish(b *Broker, ep Endpoint, c *Conn, p packet.Packet) error {
	pkt := p.(*packet.Publish)
	if c == nil {
		if pkt.Flags.QoS != 0 {
			return errOutOfState(ep, packet.PUBLISH, c)
		}
	} else if c.State != StateActive {
		return errOutOfState(ep, packet.PUBLISH, c)
	}
	if pkt.Flags.TopicIDType == packet.TopicIDTypeShort || pkt.Flags.TopicIDType == packet.TopicIDTypeReserved {
		return fmt.Errorf("mqtt-sn: publish from %s: topic id type %#b not supported", ep, pkt.Flags.TopicIDType)
	}

	switch pkt.Flags.QoS {
	case 0:
		b.pipeline.HandlePublishQoS0(pkt.TopicID, pkt.Flags, pkt.Data)
	case 1:
		b.pipeline.HandlePublishQoS1(ep, pkt.TopicID, pkt.MsgID, pkt.Flags, pkt.Data)
	case 2:
		b.pipeline.HandlePublishQoS2(ep, pkt.TopicID, pkt.MsgID, pkt.Data)
	default:
		return fmt.Errorf("mqtt-sn: publish from %s: qos %d not supported", ep, pkt.Flags.QoS)
	}
	return nil
}
