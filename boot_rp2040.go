//go:build rp2040

package main

import (
	"context"

	"spincoater-go/hal"
)

func deviceID() string { return "pico" }

func newResources() hal.Resources { return hal.NewResources() }

// platformRun parks the main goroutine; the services do all the work.
func platformRun(ctx context.Context, _ hal.Resources) {
	<-ctx.Done()
}
