// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"testing"

	"github.com/tve/thermocouple/max31855"
)

// script is a reader returning canned results in order.
type script struct {
	data []max31855.Data
	errs []error
	i    int
}

func (s *script) Read() (max31855.Data, error) {
	i := s.i
	s.i++
	return s.data[i], s.errs[i]
}

func reading(thermoQuarters, ambientSixteenths int32) max31855.Data {
	return max31855.Data(uint32(thermoQuarters)<<18 | (uint32(ambientSixteenths)&0xfff)<<4)
}

func TestMedian(t *testing.T) {
	tests := map[string]struct {
		in   []float64
		want float64
	}{
		"one":  {[]float64{3}, 3},
		"odd":  {[]float64{9, 1, 5}, 5},
		"even": {[]float64{4, 1, 3, 2}, 2.5},
	}
	for n, tc := range tests {
		if got := median(tc.in); got != tc.want {
			t.Fatalf("%s: got %v expected %v", n, got, tc.want)
		}
	}
}

func TestCollect(t *testing.T) {
	busErr := errors.New("bus error")
	s := &script{
		data: []max31855.Data{reading(400, 400), 0, 1<<16 | 1, reading(404, 402), reading(4000, 401)},
		errs: []error{nil, busErr, nil, nil, nil},
	}
	got, err := collect(s, 3, 0, t.Logf)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	want := Sample{Thermocouple: 101, Internal: 25.0625, Readings: 3, Errors: 2}
	if got != want {
		t.Fatalf("Got %+v expected %+v", got, want)
	}
}

func TestCollectGivesUp(t *testing.T) {
	busErr := errors.New("bus error")
	s := &script{
		data: []max31855.Data{0, reading(400, 400), 1 << 16, 0},
		errs: []error{busErr, nil, nil, busErr},
	}
	_, err := collect(s, 3, 0, nil)
	if !errors.Is(err, busErr) {
		t.Fatalf("Got %v expected %v", err, busErr)
	}
	if s.i != 4 {
		t.Fatalf("Took %d readings expected 4", s.i)
	}
}

func TestCollectFault(t *testing.T) {
	s := &script{
		data: []max31855.Data{1<<16 | 4},
		errs: []error{nil},
	}
	_, err := collect(s, 1, 0, nil)
	var fe *max31855.FaultError
	if !errors.As(err, &fe) {
		t.Fatalf("Got %v expected a fault", err)
	}
}
