package transport

import (
	"fmt"
	"strings"

	"go.bug.st/serial"

	"github.com/Smart-Ag/corncobs/frame"
)

func openSerial(cfg SerialConfig) (frame.Stream, error) {
	parity, err := parityMode(cfg.Parity)
	if err != nil {
		return nil, err
	}
	stopBits, err := stopBitsMode(cfg.StopBits)
	if err != nil {
		return nil, err
	}
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: cfg.DataBits,
		Parity:   parity,
		StopBits: stopBits,
	}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("transport: open serial port %s: %w", cfg.Port, err)
	}
	return port, nil
}

func parityMode(raw string) (serial.Parity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none", "n":
		return serial.NoParity, nil
	case "odd", "o":
		return serial.OddParity, nil
	case "even", "e":
		return serial.EvenParity, nil
	case "mark", "m":
		return serial.MarkParity, nil
	case "space", "s":
		return serial.SpaceParity, nil
	default:
		return serial.NoParity, fmt.Errorf("transport: invalid parity %q", raw)
	}
}

func stopBitsMode(n int) (serial.StopBits, error) {
	switch n {
	case 0, 1:
		return serial.OneStopBit, nil
	case 2:
		return serial.TwoStopBits, nil
	default:
		return serial.OneStopBit, fmt.Errorf("transport: invalid stop bits %d", n)
	}
}
