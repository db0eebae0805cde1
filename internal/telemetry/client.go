// internal/telemetry/client.go
package telemetry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
)

// Client implements RegisterWriter over Modbus TCP holding registers.
type Client struct {
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// Config is minimal transport config.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// Dial creates a connected status memory client.
func Dial(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("telemetry: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("telemetry: connect %s: %w", cfg.Endpoint, err)
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// WriteRegisters writes a run of holding registers starting at addr.
func (c *Client) WriteRegisters(addr uint16, regs []uint16) error {
	if len(regs) == 0 {
		return nil
	}

	buf := make([]byte, 2*len(regs))
	for i, r := range regs {
		binary.BigEndian.PutUint16(buf[2*i:], r)
	}

	_, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), buf)
	return err
}
