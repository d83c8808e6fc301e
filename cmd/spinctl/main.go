// spinctl sends speed commands to the spin coater over its serial port.
// It stands in for the host GUI at the wire boundary: one SPEED:<n> line per
// command, fire-and-forget, no acknowledgment is read back.
//
// Usage:
//
//	spinctl [-config spinctl.yaml] [-port /dev/ttyACM0] [-baud 115200] <rpm>
//	spinctl stop
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.bug.st/serial"
	"gopkg.in/yaml.v3"
)

type config struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

func loadConfig(path string) (config, error) {
	cfg := config{Baud: 115200}
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	cfgPath := flag.String("config", "", "YAML config file (port, baud)")
	port := flag.String("port", "", "serial port, overrides config")
	baud := flag.Int("baud", 0, "baud rate, overrides config")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: spinctl [flags] <rpm>|stop")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "spinctl:", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *baud != 0 {
		cfg.Baud = *baud
	}
	if cfg.Port == "" {
		fmt.Fprintln(os.Stderr, "spinctl: no serial port given (use -port or a config file)")
		os.Exit(2)
	}

	rpm := 0
	if arg := flag.Arg(0); arg != "stop" {
		rpm, err = strconv.Atoi(arg)
		if err != nil || rpm < 0 {
			fmt.Fprintf(os.Stderr, "spinctl: bad rpm %q\n", arg)
			os.Exit(2)
		}
	}

	sp, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.Baud})
	if err != nil {
		fmt.Fprintf(os.Stderr, "spinctl: open %s: %v\n", cfg.Port, err)
		os.Exit(1)
	}
	defer sp.Close()

	if _, err := fmt.Fprintf(sp, "SPEED:%d\n", rpm); err != nil {
		fmt.Fprintln(os.Stderr, "spinctl: write:", err)
		os.Exit(1)
	}
	fmt.Printf("sent SPEED:%d to %s\n", rpm, cfg.Port)
}
