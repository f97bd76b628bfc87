package transport

import (
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/Smart-Ag/corncobs/internal/testutil/testlog"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "transport.toml")
	raw := `
kind = "serial"

[serial]
port = "/dev/ttyUSB0"
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Kind != KindSerial {
		t.Fatalf("kind=%q want serial", cfg.Kind)
	}
	if cfg.Serial.Baud != 115200 || cfg.Serial.DataBits != 8 || cfg.Serial.Parity != "none" || cfg.Serial.StopBits != 1 {
		t.Fatalf("defaults not applied: %+v", cfg.Serial)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	testlog.Start(t)
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateErrors(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		cfg  Config
	}{
		{"unknown kind", Config{Kind: Kind("pigeon")}},
		{"serial without port", Config{Kind: KindSerial, Serial: SerialConfig{Baud: 9600, Parity: "none", StopBits: 1}}},
		{"bad parity", Config{Kind: KindSerial, Serial: SerialConfig{Port: "/dev/ttyS0", Parity: "both", StopBits: 1}}},
		{"bad stop bits", Config{Kind: KindSerial, Serial: SerialConfig{Port: "/dev/ttyS0", Parity: "none", StopBits: 3}}},
		{"socket without address", Config{Kind: KindSocket}},
	}
	for _, tc := range cases {
		if err := tc.cfg.Validate(); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestOpenStreamKindRefused(t *testing.T) {
	testlog.Start(t)
	_, err := Open(Config{Kind: KindStream})
	if !errors.Is(err, ErrStreamKindDirect) {
		t.Fatalf("err=%v want ErrStreamKindDirect", err)
	}
}

func TestOpenUnknownKind(t *testing.T) {
	testlog.Start(t)
	_, err := Open(Config{Kind: Kind("pigeon")})
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err=%v want ErrUnknownKind", err)
	}
}

func TestOpenSocket(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	stream, err := Open(Config{
		Kind:   KindSocket,
		Socket: SocketConfig{Address: ln.Addr().String()},
	})
	if err != nil {
		t.Fatalf("open socket: %v", err)
	}
	closer, ok := stream.(io.Closer)
	if !ok {
		t.Fatalf("socket stream is not closable")
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
