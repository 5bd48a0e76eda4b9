// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcf8574

import (
	"strings"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestWriteByte(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddress, W: []byte{0xa5}},
			{Addr: DefaultAddress, W: []byte{0x00}},
		},
		DontPanic: true,
	}
	dev, err := New(bus, DefaultAddress)
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.WriteByte(0xa5); err != nil {
		t.Error(err)
	}
	if err := dev.WriteByte(0x00); err != nil {
		t.Error(err)
	}
	// The recording is exhausted; the next write must surface a wrapped
	// bus error.
	err = dev.WriteByte(0xff)
	if err == nil {
		t.Fatal("expected an error on exhausted playback")
	}
	if !strings.HasPrefix(err.Error(), "pcf8574:") {
		t.Errorf("error %q not wrapped with the package name", err)
	}
}

func TestReadByte(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: DefaultAddress, R: []byte{0x5a}}},
		DontPanic: true,
	}
	dev, err := New(bus, DefaultAddress)
	if err != nil {
		t.Fatal(err)
	}
	b, err := dev.ReadByte()
	if err != nil {
		t.Fatal(err)
	}
	if b != 0x5a {
		t.Errorf("ReadByte() = %#x, want 0x5a", b)
	}
}

func TestBasic(t *testing.T) {
	dev, err := New(&i2ctest.Playback{DontPanic: true}, DefaultAddress)
	if err != nil {
		t.Fatal(err)
	}
	if len(dev.String()) == 0 {
		t.Error("String() failure")
	}
	if err := dev.Halt(); err != nil {
		t.Error(err)
	}
}
