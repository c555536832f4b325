// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package max31855

import (
	"fmt"
	"strings"

	"periph.io/x/conn/v3/physic"
)

// Layout of the 32-bit output register, as [lo, hi) bit ranges.
const (
	thermoLo, thermoHi   = 18, 32 // signed 14-bit thermocouple temperature
	faultBit             = 16     // set if any of the three fault bits below is set
	ambientLo, ambientHi = 4, 16  // signed 12-bit reference junction temperature
	scvBit               = 2      // thermocouple shorted to VCC
	scgBit               = 1      // thermocouple shorted to ground
	ocBit                = 0      // thermocouple open circuit
)

const (
	thermoLSB  = 250 * physic.MilliCelsius  // 0.25°C
	ambientLSB = 62500 * physic.MicroKelvin // 0.0625°C
)

// Data is the raw content of the output register as read from the device.
type Data uint32

// Raw returns the register as read.
func (d Data) Raw() uint32 { return uint32(d) }

// ThermoCode returns the signed 14-bit thermocouple temperature in units of 0.25°C.
func (d Data) ThermoCode() int32 {
	return signExtend(bits(uint32(d), thermoLo, thermoHi), thermoHi-thermoLo)
}

// ThermoTemperature returns the thermocouple temperature in °C.
func (d Data) ThermoTemperature() float64 {
	return float64(d.ThermoCode()) * 0.25
}

// Thermocouple returns the thermocouple temperature.
func (d Data) Thermocouple() physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(d.ThermoCode())*thermoLSB
}

// Fault returns true if any of the short to VCC, short to ground or open circuit faults is active.
func (d Data) Fault() bool { return d.bit(faultBit) }

// AmbientCode returns the signed 12-bit reference junction temperature in units of 0.0625°C.
func (d Data) AmbientCode() int32 {
	return signExtend(bits(uint32(d), ambientLo, ambientHi), ambientHi-ambientLo)
}

// AmbientTemperature returns the temperature of the chip itself in °C.
func (d Data) AmbientTemperature() float64 {
	return float64(d.AmbientCode()) * 0.0625
}

// Ambient returns the temperature of the chip itself.
func (d Data) Ambient() physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(d.AmbientCode())*ambientLSB
}

// ShortToVCC returns true if the thermocouple is shorted to VCC.
func (d Data) ShortToVCC() bool { return d.bit(scvBit) }

// ShortToGround returns true if the thermocouple is shorted to ground.
func (d Data) ShortToGround() bool { return d.bit(scgBit) }

// OpenCircuit returns true if the thermocouple is not connected.
func (d Data) OpenCircuit() bool { return d.bit(ocBit) }

// Err returns a *FaultError if any fault bit is set and nil otherwise.
func (d Data) Err() error {
	if !d.Fault() && !d.ShortToVCC() && !d.ShortToGround() && !d.OpenCircuit() {
		return nil
	}
	return &FaultError{Data: d}
}

func (d Data) String() string {
	s := fmt.Sprintf("thermocouple %.2f°C, internal %.4f°C", d.ThermoTemperature(), d.AmbientTemperature())
	if d.Err() != nil {
		s += " (" + d.faults() + ")"
	}
	return s
}

// faults describes the active fault bits.
func (d Data) faults() string {
	var f []string
	if d.OpenCircuit() {
		f = append(f, "thermocouple open circuit")
	}
	if d.ShortToGround() {
		f = append(f, "thermocouple shorted to ground")
	}
	if d.ShortToVCC() {
		f = append(f, "thermocouple shorted to VCC")
	}
	if len(f) == 0 {
		return "thermocouple fault"
	}
	return strings.Join(f, ", ")
}

func (d Data) bit(n uint) bool {
	return bits(uint32(d), n, n+1) != 0
}

// bits extracts bits [lo, hi) of v, right-aligned.
func bits(v uint32, lo, hi uint) uint32 {
	return (v >> lo) & (1<<(hi-lo) - 1)
}

// signExtend interprets the low width bits of v as a two's complement number.
func signExtend(v uint32, width uint) int32 {
	shift := 32 - width
	return int32(v<<shift) >> shift
}
