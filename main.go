package main

import (
	"context"
	"time"

	"spincoater-go/bus"
	"spincoater-go/services/config"
	"spincoater-go/services/heartbeat"
	"spincoater-go/services/motor"
	"spincoater-go/services/serial"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("spincoater: boot")

	// Queue length 1: at most one command line pends between the serial
	// reader and the motor service, newest wins.
	b := bus.NewBus(1)
	res := newResources()
	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID())

	serial.Start(ctx, b.NewConnection("serial"), res)
	motor.Start(ctx, b.NewConnection("motor"), res)
	(&heartbeat.Service{}).Start(ctx, b.NewConnection("heartbeat"))

	// Config last: services pick their sections up as retained messages,
	// and the motor service forces the safe state before the first command.
	config.NewService().Start(ctx, b.NewConnection("config"))

	platformRun(ctx, res)
}
