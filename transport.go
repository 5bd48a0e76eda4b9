// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd1602a

// Transport is single-byte access to the GPIO expander the panel hangs off.
// Each written byte drives all eight expander lines at once. The real
// implementation lives in the pcf8574 package; lcdsim provides an emulated
// one for tests and local development.
//
// ReadByte exists for symmetry with the expander's quasi-bidirectional
// lines. This driver never calls it, panel read-back is unsupported.
type Transport interface {
	WriteByte(b byte) error
	ReadByte() (byte, error)
}
