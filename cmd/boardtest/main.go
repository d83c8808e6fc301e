//go:build rp2040

// boardtest walks the enable and speed outputs through a fixed pattern so the
// wiring can be checked with a meter before connecting the motor controller.
package main

import (
	"time"

	"spincoater-go/hal"
)

const (
	enablePin = 2
	speedPin  = 3
	outputMax = 255
)

func main() {
	time.Sleep(2 * time.Second)
	println("[boardtest] boot")

	res := hal.NewResources()

	enable, err := res.ClaimGPIO("boardtest", enablePin)
	if err != nil {
		println("[boardtest] FAIL: claim enable:", err.Error())
		return
	}
	speed, err := res.ClaimPWM("boardtest", speedPin)
	if err != nil {
		println("[boardtest] FAIL: claim speed:", err.Error())
		return
	}

	if err := enable.ConfigureOutput(false); err != nil {
		println("[boardtest] FAIL: enable configure:", err.Error())
		return
	}
	if err := speed.Configure(1000, outputMax); err != nil {
		println("[boardtest] FAIL: pwm configure:", err.Error())
		return
	}
	speed.Set(0)

	levels := []uint16{0, 64, 128, 255, 128, 0}
	for {
		for _, lvl := range levels {
			if lvl > 0 {
				enable.Set(true)
				speed.Set(lvl)
			} else {
				speed.Set(0)
				enable.Set(false)
			}
			println("[boardtest] level =", int(lvl))
			time.Sleep(2 * time.Second)
		}
	}
}
