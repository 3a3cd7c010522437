// Package config loads server settings from the environment. Every setting
// has a usable default so a bare `chess-server` starts out of the box.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	// Port the HTTP/WebSocket listener binds to.
	Port int

	// AllowedOrigins restricts WebSocket upgrades. Empty means same-origin
	// only; the single entry "*" disables the check.
	AllowedOrigins []string

	// RoomTTL bounds how long a room with both seats vacant is retained.
	// Zero disables eviction.
	RoomTTL time.Duration

	// MsgTemplateDir optionally overrides the embedded message catalog.
	MsgTemplateDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:    3000,
		RoomTTL: 24 * time.Hour,
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 65535 {
			return nil, fmt.Errorf("PORT must be a port number, got %q", v)
		}
		cfg.Port = n
	}

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, s)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("ROOM_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("ROOM_TTL must be a duration like 24h, got %q", v)
		}
		cfg.RoomTTL = d
	}

	cfg.MsgTemplateDir = strings.TrimSpace(os.Getenv("MSG_TEMPLATE_DIR"))

	return cfg, nil
}
