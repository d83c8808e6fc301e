//go:build !rp2040

package main

import (
	"bufio"
	"context"
	"os"

	"spincoater-go/hal"
)

func deviceID() string { return "host" }

func newResources() hal.Resources { return hal.NewResources() }

// platformRun feeds stdin into the fake UART so the firmware can be exercised
// on a workstation: type SPEED:<n> lines and watch the state logs.
func platformRun(ctx context.Context, res hal.Resources) {
	port := res.(*hal.HostResources).Port("uart0")
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		port.Inject(append(sc.Bytes(), '\n'))
	}
	<-ctx.Done()
}
