package packet

import "bytes"

type PingResp struct{}

func (p *PingResp) Kind() byte                  { return PINGRESP }
func (p *PingResp) PackBody(*bytes.Buffer) error { return nil }
func (p *PingResp) UnpackBody([]byte) error      { return nil }
