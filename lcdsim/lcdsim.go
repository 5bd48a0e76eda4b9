// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdsim emulates an LCD1602A panel wired to a PCF8574 I2C backpack.
// It consumes the same byte stream the real expander would and decodes the
// 4-bit protocol: nibbles are latched on the falling edge of the enable
// line, paired into instruction or character bytes, and applied to a 16x2
// cell buffer.
//
// Useful while you are waiting for your panel to come by mail, and for
// verifying the full encode path in tests without hardware. The panel state
// can be rendered to the terminal with ANSI colors or snapshotted to an
// image.
package lcdsim

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GermanBionicSystems/lcd1602a"
)

const (
	rows = 2
	cols = 16

	// Expander line assignment, mirroring the backpack wiring.
	rsLine        byte = 1 << 0
	enableLine    byte = 1 << 2
	backlightLine byte = 1 << 3

	// HD44780 instruction classes decoded by the emulator. The low bits of
	// each class are modifier flags.
	cmdClear      byte = 0x01
	cmdHome       byte = 0x02
	cmdEntryMode  byte = 0x04
	cmdDisplay    byte = 0x08
	cmdFunction   byte = 0x20
	cmdSetAddress byte = 0x80

	// DDRAM rows are 0x40 addresses apart.
	rowStride = 0x40
)

// Opts represents the options available for the emulated panel.
type Opts struct {
	// Writer receives the terminal rendering. Defaults to a colorable
	// stdout.
	Writer io.Writer
	// Palette used for the bezel blocks in the terminal rendering.
	Palette *ansi256.Palette

	_ struct{}
}

// Panel is an emulated LCD1602A behind its backpack expander. It implements
// the driver's byte transport.
type Panel struct {
	w       io.Writer
	palette ansi256.Palette
	face    font.Face

	mu        sync.Mutex
	cells     [rows][cols]byte
	row, col  int
	last      byte // previous expander byte, for enable edge detection
	hiNibble  byte
	haveHi    bool
	rs        bool
	on        bool
	backlight bool
	buf       bytes.Buffer
}

// New returns an emulated panel with cleared cells, display off and
// backlight off, the state a real panel powers up in before the driver's
// power-on sequence runs.
func New(opts *Opts) (*Panel, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("lcdsim: %w", err)
	}
	p := &Panel{
		w:       colorable.NewColorableStdout(),
		palette: *ansi256.Default,
		face:    truetype.NewFace(f, &truetype.Options{Size: 18}),
	}
	if opts != nil {
		if opts.Writer != nil {
			p.w = opts.Writer
		}
		if opts.Palette != nil {
			p.palette = *opts.Palette
		}
	}
	p.clear()
	return p, nil
}

// WriteByte accepts one expander byte. The backlight line acts immediately;
// data and instruction nibbles are latched when the enable line falls.
func (p *Panel) WriteByte(b byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.backlight = b&backlightLine != 0
	if p.last&enableLine != 0 && b&enableLine == 0 {
		p.latch(b>>4, b&rsLine != 0)
	}
	p.last = b
	return nil
}

// ReadByte returns the last driven line state, which is what the real chip's
// quasi-bidirectional lines read back as when nothing pulls them down.
func (p *Panel) ReadByte() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, nil
}

// latch collects nibbles into full bytes, upper nibble first. A register
// select change between the two halves restarts the byte, something a
// correct driver never produces.
func (p *Panel) latch(nibble byte, rs bool) {
	if p.haveHi && rs != p.rs {
		p.haveHi = false
	}
	if !p.haveHi {
		p.hiNibble = nibble
		p.rs = rs
		p.haveHi = true
		return
	}
	p.haveHi = false
	b := p.hiNibble<<4 | nibble
	if p.rs {
		p.putChar(b)
	} else {
		p.command(b)
	}
}

func (p *Panel) command(b byte) {
	switch {
	case b&cmdSetAddress != 0:
		addr := int(b &^ cmdSetAddress)
		p.row = addr / rowStride
		p.col = addr % rowStride
	case b&cmdFunction != 0:
		// Interface width and line count. The cell buffer is fixed at
		// 16x2, nothing to do.
	case b&cmdDisplay != 0:
		p.on = b&0x04 != 0
	case b&cmdEntryMode != 0:
		// Increment mode only; decrement and display shift are not
		// produced by the driver.
	case b&cmdHome != 0:
		p.row, p.col = 0, 0
	case b&cmdClear != 0:
		p.clear()
	}
}

func (p *Panel) clear() {
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p.cells[r][c] = ' '
		}
	}
	p.row, p.col = 0, 0
}

// putChar stores one character at the cursor and advances it. Writes landing
// outside the visible cells go to DDRAM the emulator doesn't model and are
// dropped.
func (p *Panel) putChar(b byte) {
	if p.row < rows && p.col < cols {
		p.cells[p.row][p.col] = b
	}
	p.col++
}

// Row returns the 16 visible characters of row r (0 or 1).
func (p *Panel) Row(r int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return string(p.cells[r][:])
}

// Text returns both rows joined with a newline.
func (p *Panel) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return string(p.cells[0][:]) + "\n" + string(p.cells[1][:])
}

// BacklightOn reports the state of the backlight line.
func (p *Panel) BacklightOn() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.backlight
}

// DisplayOn reports whether the display-control instruction left the panel
// on.
func (p *Panel) DisplayOn() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// Refresh renders the panel to the configured writer using ANSI colors, one
// line per display row with bezel blocks at the edges. A panel that is off
// renders blank cells.
func (p *Panel) Refresh() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// This code is designed to minimize the amount of memory allocated per
	// call.
	p.buf.Reset()
	bezel := color.NRGBA{0x10, 0x30, 0x10, 255}
	cell := "\033[90;40m"
	if p.backlight {
		bezel = color.NRGBA{0x20, 0x80, 0x20, 255}
		cell = "\033[30;102m"
	}
	for r := 0; r < rows; r++ {
		_, _ = p.buf.WriteString("\033[0m")
		_, _ = io.WriteString(&p.buf, p.palette.Block(bezel))
		_, _ = p.buf.WriteString(cell)
		if p.on {
			_, _ = p.buf.Write(p.cells[r][:])
		} else {
			_, _ = p.buf.WriteString(strings.Repeat(" ", cols))
		}
		_, _ = p.buf.WriteString("\033[0m")
		_, _ = io.WriteString(&p.buf, p.palette.Block(bezel))
		_, _ = p.buf.WriteString("\n")
	}
	n, err := p.buf.WriteTo(p.w)
	return int(n), err
}

// Cell geometry of the image snapshot, in pixels.
const (
	cellW  = 14
	cellH  = 22
	margin = 8
)

// Snapshot renders the panel to an image. The background follows the
// backlight state; an off panel renders without characters.
func (p *Panel) Snapshot() image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	dc := gg.NewContext(cols*cellW+2*margin, rows*cellH+2*margin)
	if p.backlight {
		dc.SetRGB(0.3, 0.75, 0.3)
	} else {
		dc.SetRGB(0.12, 0.18, 0.12)
	}
	dc.Clear()
	dc.SetFontFace(p.face)
	dc.SetRGB(0.05, 0.1, 0.05)
	if p.on {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				x := float64(margin+c*cellW) + cellW/2
				y := float64(margin+r*cellH) + cellH/2
				dc.DrawStringAnchored(string(rune(p.cells[r][c])), x, y, 0.5, 0.5)
			}
		}
	}
	return dc.Image()
}

func (p *Panel) String() string {
	return fmt.Sprintf("LCDSim: Rows: %d, Cols: %d", rows, cols)
}

var _ lcd1602a.Transport = &Panel{}
var _ fmt.Stringer = &Panel{}
