// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pcf8574 provides byte-level access to the TI/NXP PCF8574 I2C I/O
// expander as used on LCD1602/LCD2004 backpack boards.
//
// This chip doesn't implement a normal i2c register architecture. You write
// 8 bits out, and that sets the corresponding pins, or you read 8 bits and
// get the state of the pins. The LCD backpack use never reads; the lines are
// driven write-only with the panel's R/W pin tied low.
//
// No written byte is ever skipped or coalesced: the LCD protocol toggles the
// enable line across otherwise identical bytes, so every write must reach
// the wire.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/pcf8574.pdf
//
// A good description of the I2C LCD backpack usage can be found here:
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
package pcf8574

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

// DefaultAddress is the chip's address with all three address pins low. LCD
// backpacks commonly strap the pins high instead, which lands on 0x27.
const DefaultAddress uint16 = 0x20

// Dev is the representation of a PCF8574 device.
type Dev struct {
	d *i2c.Dev
}

// New returns a PCF8574 on the given bus and address.
func New(bus i2c.Bus, address uint16) (*Dev, error) {
	return &Dev{d: &i2c.Dev{Bus: bus, Addr: address}}, nil
}

// WriteByte drives all eight expander lines with b in one bus transaction.
func (dev *Dev) WriteByte(b byte) error {
	if err := dev.d.Tx([]byte{b}, nil); err != nil {
		return fmt.Errorf("pcf8574: %w", err)
	}
	return nil
}

// ReadByte returns the state of the eight lines. A line reads high unless
// something external pulls it down, so lines meant for input must have been
// written high first.
func (dev *Dev) ReadByte() (byte, error) {
	r := make([]byte, 1)
	if err := dev.d.Tx(nil, r); err != nil {
		return 0, fmt.Errorf("pcf8574: %w", err)
	}
	return r[0], nil
}

// Halt implements conn.Resource. The chip has no shutdown state; the lines
// keep whatever was last written.
func (dev *Dev) Halt() error {
	return nil
}

func (dev *Dev) String() string {
	return fmt.Sprintf("PCF8574_%x", dev.d.Addr)
}

var _ conn.Resource = &Dev{}
