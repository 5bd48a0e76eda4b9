// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd1602a_test

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/lcd1602a"
	"github.com/GermanBionicSystems/lcd1602a/lcdsim"
)

// This example drives an LCD1602A on a PCF8574 I2C backpack. Get an I2C bus,
// create the panel with the backpack's address (commonly 0x27), and write
// text. The panel powers on during construction; a batch is capped at the 16
// visible cells.
func ExampleNewPCF8574Backpack() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = bus.Close() }()

	lcd, err := lcd1602a.NewPCF8574Backpack(bus, 0x27)
	if err != nil {
		log.Fatal(err)
	}
	n, err := lcd.WriteString("Hello")
	fmt.Printf("n=%d, err=%v\n", n, err)
	time.Sleep(5 * time.Second)

	// The power attribute mirrors the sysfs endpoint: "0" powers off,
	// anything else powers on.
	attr := lcd.PowerAttr()
	if _, err = attr.Write([]byte("0")); err != nil {
		log.Fatal(err)
	}
}

// The emulated panel implements the same transport as the real backpack, so
// the whole protocol stack can run locally and render to the terminal.
func ExampleNew() {
	panel, err := lcdsim.New(nil)
	if err != nil {
		log.Fatal(err)
	}
	lcd, err := lcd1602a.New(panel)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := lcd.WriteString("Hello, world"); err != nil {
		log.Fatal(err)
	}
	if _, err := panel.Refresh(); err != nil {
		log.Fatal(err)
	}
	_ = lcd.Halt()
}
