package output

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/stripd/internal/pixel"
)

const (
	opcHeaderLen = 4
	// opcSetPixels is the Open Pixel Control "set 8-bit pixel colours" command.
	opcSetPixels = 0x00

	opcDialTimeout  = 2 * time.Second
	opcWriteTimeout = time.Second
)

// OPC sends frames to an Open Pixel Control server such as fadecandy.
// A failed write drops the connection; the next frame redials.
type OPC struct {
	address string
	channel uint8
	conn    net.Conn
	buf     []byte
}

// DialOPC connects to the OPC server at address.
func DialOPC(address string, channel uint8) (*OPC, error) {
	if address == "" {
		return nil, fmt.Errorf("opc output: empty address")
	}
	o := &OPC{address: address, channel: channel}
	if err := o.dial(); err != nil {
		return nil, err
	}
	log.Info().Str("address", address).Uint8("channel", channel).Msg("Connected to OPC server")
	return o, nil
}

func (o *OPC) dial() error {
	conn, err := net.DialTimeout("tcp", o.address, opcDialTimeout)
	if err != nil {
		return fmt.Errorf("opc output: connect %s: %w", o.address, err)
	}
	o.conn = conn
	return nil
}

func (o *OPC) Write(frame []pixel.Color) error {
	if o.conn == nil {
		if err := o.dial(); err != nil {
			return err
		}
		log.Info().Str("address", o.address).Msg("Reconnected to OPC server")
	}

	msg := o.encode(frame)
	_ = o.conn.SetWriteDeadline(time.Now().Add(opcWriteTimeout))
	if _, err := o.conn.Write(msg); err != nil {
		o.conn.Close()
		o.conn = nil
		return fmt.Errorf("opc output: send to %s: %w", o.address, err)
	}
	return nil
}

// encode builds one set-pixels message. The buffer is reused across frames.
func (o *OPC) encode(frame []pixel.Color) []byte {
	n := opcHeaderLen + len(frame)*3
	if cap(o.buf) < n {
		o.buf = make([]byte, n)
	}
	msg := o.buf[:n]
	msg[0] = o.channel
	msg[1] = opcSetPixels
	binary.BigEndian.PutUint16(msg[2:4], uint16(len(frame)*3))
	for i, c := range frame {
		p := msg[opcHeaderLen+i*3:]
		p[0], p[1], p[2] = c.R, c.G, c.B
	}
	return msg
}

func (o *OPC) Close() error {
	if o.conn == nil {
		return nil
	}
	err := o.conn.Close()
	o.conn = nil
	return err
}
