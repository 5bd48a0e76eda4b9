// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd1602a

import (
	"fmt"
	"io"
)

// PowerAttr exposes the power flag as a textual read/write attribute in the
// style of a sysfs file. Reading yields "0" or "1"; writing a decimal
// integer maps zero to power-off and anything else to power-on.
type PowerAttr struct {
	dev *Dev
}

// PowerAttr returns the textual power endpoint for this panel.
func (d *Dev) PowerAttr() *PowerAttr {
	return &PowerAttr{dev: d}
}

// Read copies "0\n" or "1\n" into p and reports end-of-stream.
func (a *PowerAttr) Read(p []byte) (int, error) {
	v := "0\n"
	if a.dev.Powered() {
		v = "1\n"
	}
	return copy(p, v), io.EOF
}

// Write scans a decimal integer from p and switches the power accordingly.
// Input that fails to scan leaves the value at zero, so malformed input
// powers the panel off.
func (a *PowerAttr) Write(p []byte) (int, error) {
	var code int
	_, _ = fmt.Sscanf(string(p), "%d", &code)
	if err := a.dev.SetPower(code != 0); err != nil {
		return 0, err
	}
	return len(p), nil
}

var _ io.ReadWriter = &PowerAttr{}
