// Copyright 2016 by Thorsten von Eicken, see LICENSE file

// github.com/tve/thermocouple contains a driver for the MAX31855 thermocouple converter attached
// to an SPI bus, plus the small transport shim it is written against. The driver itself lives in
// the max31855 directory and only needs something that can perform an SPI transaction: a periph
// spi.Conn works as-is and the EmbdSPI type in this package adapts an embd SPI bus. A simple
// command to test the device can be found in the cmd directory tree.
package thermocouple
