// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd1602a

import (
	"periph.io/x/conn/v3/i2c"

	"github.com/GermanBionicSystems/lcd1602a/pcf8574"
)

// NewPCF8574Backpack returns a panel wired through a PCF8574 I2C backpack.
//
// # Product Information
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
//
// To use this, get an I2C bus, and call this function with the bus and the
// backpack's i2c address. The panel is powered on before this returns.
func NewPCF8574Backpack(bus i2c.Bus, address uint16) (*Dev, error) {
	exp, err := pcf8574.New(bus, address)
	if err != nil {
		return nil, err
	}
	return New(exp)
}
