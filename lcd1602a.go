// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcd1602a controls a 16x2 character LCD1602A panel (HD44780
// compatible) wired behind an 8-bit I²C GPIO expander backpack. The panel's
// 4-bit parallel interface is multiplexed over the expander's output lines,
// so every command or character byte travels as two nibble transactions with
// an enable strobe per nibble.
//
// Implements periph.io/x/conn/v3/display/TextDisplay. Cursor positioning and
// read-back are not supported; the panel is driven write-only.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package lcd1602a

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
)

type writeMode bool

const (
	modeCommand writeMode = false
	modeData    writeMode = true

	packageName = "lcd1602a"
)

// Expander line assignment of the common PCF8574 LCD backpacks. The data
// nibble rides on the expander's upper four lines, the control lines on the
// lower four.
const (
	rsLine        byte = 1 << 0 // 0 = instruction register, 1 = data register
	rwLine        byte = 1 << 1 // held low, the panel is never read
	enableLine    byte = 1 << 2 // falling edge latches the nibble
	backlightLine byte = 1 << 3
)

// HD44780 instruction set, limited to what the lifecycle sequences use.
const (
	cmdClearDisplay     byte = 0x01
	cmdReturnHome       byte = 0x02
	cmdShiftCursorRight byte = 0x06 // entry mode: increment, no display shift
	cmdDisplayOff       byte = 0x08
	cmdCursorOff        byte = 0x0c // display on, cursor removed
	cmdLineCursor       byte = 0x0e
	cmdFunc4Bit2Rows    byte = 0x28
)

const (
	// Minimum time the enable line must stay high for the controller to
	// sample the data lines.
	delayStrobe = 50 * time.Microsecond
	// Execution time of an ordinary instruction.
	delayCommand = 500 * time.Microsecond
	// Execution time of Clear Display and Return Home, which run far longer
	// than ordinary instructions.
	delayInit = 2500 * time.Microsecond
)

// The panel shows 16 visible cells across its two rows; a write batch is
// capped there.
const (
	displayRows = 2
	displayCols = 16
	maxWrite    = 16
)

var ErrNotImplemented = fmt.Errorf("%s: %w", packageName, display.ErrNotImplemented)

func wrap(err error) error {
	if err == nil || strings.HasPrefix(err.Error(), packageName) {
		return err
	}
	return fmt.Errorf("%s: %w", packageName, err)
}

// Dev is one LCD1602A panel behind an expander. It owns the power and
// backlight flags and serializes all hardware access; a whole write batch or
// power transition runs under one lock acquisition, so concurrent callers
// never observe a half-completed sequence.
type Dev struct {
	mu        sync.Mutex
	t         Transport
	power     bool
	backlight bool
}

// New returns a Dev driving the panel through t and runs the power-on
// sequence; the panel's state at attach is unknown until then. The transport
// is borrowed for the life of the Dev; no other component may write to it.
func New(t Transport) (*Dev, error) {
	d := &Dev{t: t}
	if err := d.SetPower(true); err != nil {
		return nil, err
	}
	return d, nil
}

// encodeNibble packs a 4-bit payload and the control lines into the byte
// presented to the expander. The payload occupies the upper four bits no
// matter which half of the source byte it came from; the caller selects the
// half. The R/W line is never asserted.
func encodeNibble(nibble byte, mode writeMode, backlight, strobe bool) byte {
	v := nibble << 4
	if mode == modeData {
		v |= rsLine
	}
	if strobe {
		v |= enableLine
	}
	if backlight {
		v |= backlightLine
	}
	return v
}

// sendByte transfers one instruction or character byte as two nibble
// transactions, upper nibble first. Each nibble is presented with the enable
// line high, held for the strobe delay, then re-presented with enable low;
// the falling edge is what the controller latches on. A transport failure
// aborts the transfer immediately; the controller's latched state is
// undefined after that and the caller must abort its own sequence.
func (d *Dev) sendByte(b byte, mode writeMode) error {
	for _, nibble := range [2]byte{b >> 4, b & 0x0f} {
		if err := d.t.WriteByte(encodeNibble(nibble, mode, d.backlight, true)); err != nil {
			return wrap(err)
		}
		time.Sleep(delayStrobe)
		if err := d.t.WriteByte(encodeNibble(nibble, mode, d.backlight, false)); err != nil {
			return wrap(err)
		}
		time.Sleep(delayCommand)
	}
	return nil
}

// powerOn brings the panel to a known, cleared, backlit state. The flags are
// set before the hardware is driven; a transport failure mid-sequence leaves
// them describing the intended state, not necessarily the reached one. The
// long waits after Clear and Home are mandatory, the controller corrupts its
// state if further bytes arrive before they elapse.
//
// Callers must hold d.mu.
func (d *Dev) powerOn() error {
	d.power = true
	d.backlight = true
	if err := d.sendByte(cmdClearDisplay, modeCommand); err != nil {
		return err
	}
	time.Sleep(delayInit)
	if err := d.sendByte(cmdReturnHome, modeCommand); err != nil {
		return err
	}
	time.Sleep(delayInit)
	if err := d.sendByte(cmdFunc4Bit2Rows, modeCommand); err != nil {
		return err
	}
	if err := d.sendByte(cmdLineCursor, modeCommand); err != nil {
		return err
	}
	if err := d.sendByte(cmdCursorOff, modeCommand); err != nil {
		return err
	}
	if err := d.sendByte(cmdShiftCursorRight, modeCommand); err != nil {
		return err
	}
	if err := d.sendByte(cmdClearDisplay, modeCommand); err != nil {
		return err
	}
	time.Sleep(delayInit)
	return nil
}

// powerOff clears and homes the panel while still backlit, then drops the
// backlight and turns the display off. Like powerOn it is optimistic about
// the flags and runs unguarded, a redundant call simply replays the
// sequence.
//
// Callers must hold d.mu.
func (d *Dev) powerOff() error {
	d.power = true
	d.backlight = true
	if err := d.sendByte(cmdClearDisplay, modeCommand); err != nil {
		return err
	}
	time.Sleep(delayInit)
	if err := d.sendByte(cmdReturnHome, modeCommand); err != nil {
		return err
	}
	time.Sleep(delayInit)
	d.backlight = false
	if err := d.sendByte(cmdDisplayOff, modeCommand); err != nil {
		return err
	}
	time.Sleep(delayInit)
	d.power = false
	return nil
}

// clearSeq re-homes and clears the panel without a power transition.
//
// Callers must hold d.mu.
func (d *Dev) clearSeq() error {
	if err := d.sendByte(cmdReturnHome, modeCommand); err != nil {
		return err
	}
	time.Sleep(delayInit)
	if err := d.sendByte(cmdClearDisplay, modeCommand); err != nil {
		return err
	}
	time.Sleep(delayInit)
	return d.sendByte(cmdShiftCursorRight, modeCommand)
}

// SetPower runs the power-on or power-off sequence. There is no guard
// against redundant transitions; powering off an already off panel replays
// the whole power-off sequence.
func (d *Dev) SetPower(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if on {
		return d.powerOn()
	}
	return d.powerOff()
}

// Powered reports whether the panel has been initialized and accepts writes.
func (d *Dev) Powered() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.power
}

// Write sends up to 16 characters to the panel. Input beyond 16 octets is
// truncated, the panel has no more visible cells and no wrap logic exists
// beyond the controller's own cursor advance. Writing to an unpowered panel
// is a silent no-op returning 0; callers must power on explicitly first.
//
// Every batch re-runs the power-on sequence, which also re-homes the cursor,
// before the characters go out.
func (d *Dev) Write(p []byte) (n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.power {
		return 0, nil
	}
	if len(p) > maxWrite {
		p = p[:maxWrite]
	}
	if err = d.powerOn(); err != nil {
		return 0, err
	}
	for _, b := range p {
		if err = d.sendByte(b, modeData); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Write a string output to the display.
func (d *Dev) WriteString(text string) (int, error) {
	return d.Write([]byte(text))
}

// Read is not supported, the backpack ties R/W low. It always yields
// end-of-stream with zero bytes.
func (d *Dev) Read(p []byte) (int, error) {
	log.Printf("%s: the read op is not implemented", packageName)
	return 0, io.EOF
}

// Clear re-homes and clears the panel. Used to start a fresh text write
// without a power transition.
func (d *Dev) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clearSeq()
}

// Display powers the whole panel on or off. The backlight follows the power
// lifecycle and is not separately controllable on this wiring.
func (d *Dev) Display(on bool) error {
	return d.SetPower(on)
}

// Backlight cannot be driven independently of the power lifecycle on this
// backpack. Returns display.ErrNotImplemented.
func (d *Dev) Backlight(intensity display.Intensity) error {
	return ErrNotImplemented
}

// Not supported by this device. Returns display.ErrNotImplemented.
func (d *Dev) AutoScroll(enabled bool) error {
	return ErrNotImplemented
}

// Cursor control is not supported; the lifecycle sequences leave the cursor
// removed. Returns display.ErrNotImplemented.
func (d *Dev) Cursor(modes ...display.CursorMode) error {
	return ErrNotImplemented
}

// Not supported by this device. Returns display.ErrNotImplemented.
func (d *Dev) Home() error {
	return ErrNotImplemented
}

// Not supported by this device. Returns display.ErrNotImplemented.
func (d *Dev) Move(dir display.CursorDirection) error {
	return ErrNotImplemented
}

// Not supported by this device. Returns display.ErrNotImplemented.
func (d *Dev) MoveTo(row, col int) error {
	return ErrNotImplemented
}

// Return the number of rows the display supports.
func (d *Dev) Rows() int {
	return displayRows
}

// Return the number of columns the display supports.
func (d *Dev) Cols() int {
	return displayCols
}

// Return the min row position.
func (d *Dev) MinRow() int {
	return 1
}

// Return the min column position.
func (d *Dev) MinCol() int {
	return 1
}

// Halt powers the panel off.
func (d *Dev) Halt() error {
	return d.SetPower(false)
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s: Rows: %d, Cols: %d", packageName, displayRows, displayCols)
}

var _ display.TextDisplay = &Dev{}
var _ conn.Resource = &Dev{}
var _ io.ReadWriter = &Dev{}
