// Copyright 2016 by Thorsten von Eicken, see LICENSE file

// The max31855 package interfaces with the Maxim Integrated MAX31855 thermocouple
// to digital converter chip.
//
// The MAX31855 chip contains an analog-to-digital converter that is designed to read the
// low voltages produced by thermocouples and convert them to degrees centigrate which can
// be read out using a read-only SPI interface. The MAX31855 comes in a number of variants
// for the different types of thermocouples (max31855K for K-type, max31855J for J-type, etc).
//
// The max31855 itself contains a temperature sensor, which is required to perform the temperature
// conversion and it is important to keep the junction between the thermocouple wires and the copper
// traces leading to the max31855 and the max31855 itself at the same temperature.
//
// The max31855 measures the thermocouple temperature to a resolution of 0.25°C and its internal
// temperature to 0.0625°C. The absolute accuracy, however, is +/-2°C for K-type thermocouples in
// the -200°C..700°C range as well as for the internal temperature sensor.
//
// Every read clocks out the chip's 32-bit output register. Read returns it as a Data value whose
// accessors decode the individual fields; fault conditions are reported as flags in the Data, they
// are not errors. The only error Read returns is a failed bus transaction, as a *ReadError.
//
// A Dev is not safe for concurrent use, callers sharing one must serialize access themselves.
//
// Datasheet: https://datasheets.maximintegrated.com/en/ds/MAX31855.pdf
package max31855

import (
	"encoding/binary"
	"fmt"

	"github.com/tve/thermocouple"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// MaxSpeed is the highest SCK frequency supported by the chip.
const MaxSpeed = 5 * physic.MegaHertz

// Dev represents a MAX31855 device.
type Dev struct {
	c thermocouple.Conn
}

// New returns a Dev that reads from c. It performs no I/O.
func New(c thermocouple.Conn) *Dev {
	return &Dev{c: c}
}

// Open connects to the device on the given SPI port using mode 0, 8-bit words and MaxSpeed.
func Open(p spi.Port) (*Dev, error) {
	c, err := p.Connect(MaxSpeed, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("max31855: connect error: %v", err)
	}
	return New(c), nil
}

// Read performs a single 32-bit read of the device and returns the register contents.
func (d *Dev) Read() (Data, error) {
	var wBuf, rBuf [4]byte
	if err := d.c.Tx(wBuf[:], rBuf[:]); err != nil {
		return 0, &ReadError{Err: err}
	}
	return Data(binary.BigEndian.Uint32(rBuf[:])), nil
}

// Sense reads the device and stores the thermocouple temperature in e.Temperature. If the chip
// flags a fault the temperature is meaningless, e is left unchanged and a *FaultError is returned.
func (d *Dev) Sense(e *physic.Env) error {
	data, err := d.Read()
	if err != nil {
		return err
	}
	if err := data.Err(); err != nil {
		return err
	}
	e.Temperature = data.Thermocouple()
	return nil
}

// Precision returns the resolution of the thermocouple temperature.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = thermoLSB
}

// Halt is a no-op, the chip converts continuously and has no way to be stopped.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("MAX31855{%v}", d.c)
}

// ReadError is returned by Read when the bus transaction fails. It carries the transport's error
// unchanged.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return e.Err.Error() }

func (e *ReadError) Unwrap() error { return e.Err }

// FaultError describes the fault conditions flagged in a reading.
type FaultError struct {
	Data Data
}

func (e *FaultError) Error() string {
	return "max31855: " + e.Data.faults()
}
