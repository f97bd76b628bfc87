package transport

import (
	"fmt"
	"net"

	"github.com/Smart-Ag/corncobs/frame"
)

func openSocket(cfg SocketConfig) (frame.Stream, error) {
	conn, err := net.DialTimeout(cfg.Network, cfg.Address, cfg.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s %s: %w", cfg.Network, cfg.Address, err)
	}
	return conn, nil
}
