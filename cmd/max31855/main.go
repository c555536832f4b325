// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all"
	"github.com/tve/thermocouple"
	"github.com/tve/thermocouple/max31855"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

type LogPrintf func(format string, v ...interface{})

// reader is the part of max31855.Dev used to collect samples.
type reader interface {
	Read() (max31855.Data, error)
}

// Sample is the median of a set of readings, it is also the MQTT payload.
type Sample struct {
	Thermocouple float64 `json:"thermocouple"` // °C
	Internal     float64 `json:"internal"`     // °C
	Readings     int     `json:"readings"`
	Errors       int     `json:"errors"`
}

// collect takes n readings and returns their median. Every now and then the max31855 seems to
// return a bad value, depends a lot on noise, so a failed transaction or a reading flagging a fault
// is skipped. collect gives up after n such errors. It sleeps interval between readings to give
// the max31855 time to perform a fresh ADC.
func collect(d reader, n int, interval time.Duration, debug LogPrintf) (Sample, error) {
	if n < 1 {
		return Sample{}, errors.New("need at least one reading")
	}
	temp := make([]float64, 0, n)
	iTemp := make([]float64, 0, n)
	nErr := 0
	for {
		data, err := d.Read()
		if err == nil {
			err = data.Err()
		}
		if err != nil {
			nErr++
			if debug != nil {
				debug("reading %d failed: %s", len(temp)+nErr, err)
			}
			if nErr == n {
				return Sample{}, err
			}
		} else {
			if debug != nil {
				debug("reading %d: %s", len(temp)+nErr+1, data)
			}
			temp = append(temp, data.ThermoTemperature())
			iTemp = append(iTemp, data.AmbientTemperature())
			if len(temp) == n {
				break
			}
		}
		time.Sleep(interval)
	}
	return Sample{
		Thermocouple: median(temp),
		Internal:     median(iTemp),
		Readings:     len(temp),
		Errors:       nErr,
	}, nil
}

// median sorts v and returns its middle element, or the mean of the two middle ones.
func median(v []float64) float64 {
	sort.Float64s(v)
	m := len(v) / 2
	if len(v)%2 == 0 {
		return (v[m-1] + v[m]) / 2
	}
	return v[m]
}

// openDev opens the SPI bus using either periph or embd and returns the device together with a
// function to release the bus.
func openDev(useEmbd bool, port string, channel int) (*max31855.Dev, func() error, error) {
	if useEmbd {
		if err := embd.InitSPI(); err != nil {
			return nil, nil, err
		}
		s := thermocouple.NewEmbdSPI(byte(channel), int(max31855.MaxSpeed/physic.Hertz))
		closer := func() error {
			err := s.Close()
			embd.CloseSPI()
			return err
		}
		return max31855.New(s), closer, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, nil, err
	}
	d, err := max31855.Open(p)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	return d, p.Close, nil
}

func mainImpl() error {
	port := flag.String("spi", "", "SPI port name or number (periph), default picks the first one")
	useEmbd := flag.Bool("embd", false, "use embd instead of periph to access the SPI bus")
	channel := flag.Int("channel", 0, "SPI channel (embd)")
	n := flag.Int("n", 3, "number of readings to take the median of")
	interval := flag.Duration("interval", 100*time.Millisecond, "delay between readings")
	mqttHost := flag.String("mqtt", "", "host:port of MQTT broker to publish the result to")
	topic := flag.String("topic", "sensors/max31855", "MQTT topic")
	debug := flag.Bool("debug", false, "enable debug output")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected arguments, see -help")
	}

	var logger LogPrintf
	if *debug {
		logger = log.Printf
	}

	d, closer, err := openDev(*useEmbd, *port, *channel)
	if err != nil {
		return err
	}
	defer closer()
	if logger != nil {
		logger("Opened %s", d)
	}

	s, err := collect(d, *n, *interval, logger)
	if err != nil {
		return err
	}
	fmt.Printf("Thermocouple: %.1f°C internal: %.2f°C\n", s.Thermocouple, s.Internal)

	if *mqttHost == "" {
		return nil
	}
	mq, err := newMQ(*mqttHost, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %s", err)
	}
	defer mq.Close()
	return mq.Publish(*topic, s)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "max31855: %s.\n", err)
		os.Exit(1)
	}
}
