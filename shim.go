// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package thermocouple

// stuff in here is a hack to be able to switch between periph and embd...

import (
	"github.com/kidoman/embd"
)

// Conn is the only capability a device driver needs from the bus: one full-duplex transaction
// that writes w and reads len(r) bytes into r. A periph.io spi.Conn satisfies it.
type Conn interface {
	Tx(w, r []byte) error
}

//===== SPI shim for embd

// EmbdSPI adapts an embd SPI bus to Conn.
type EmbdSPI struct {
	embd.SPIBus
}

// NewEmbdSPI opens the given SPI channel in mode 0 with 8 bits per word. embd.InitSPI must have
// been called first.
func NewEmbdSPI(channel byte, speedHz int) *EmbdSPI {
	return &EmbdSPI{embd.NewSPIBus(embd.SPIMode0, channel, speedHz, 8, 0)}
}

// Tx clocks w out while reading into r. embd transfers in place, so w is copied into r first;
// bytes of r beyond len(w) are clocked out as zeros.
func (s *EmbdSPI) Tx(w, r []byte) error {
	n := copy(r, w)
	for i := n; i < len(r); i++ {
		r[i] = 0
	}
	return s.TransferAndReceiveData(r)
}

func (s *EmbdSPI) String() string {
	return "embd-spi"
}
