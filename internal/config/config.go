// Package config provides startup configuration for go-framecast commands.
// All values come from the environment. A .env file in the working directory
// is loaded first if present, so deployments can keep their settings in one
// place instead of exporting variables by hand.
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Defaults shared by both agents.
const (
	DefaultPort        = 5000
	DefaultMonitorPort = 8080
	DefaultWidth       = 640
	DefaultHeight      = 480
	DefaultQuality     = 80
	DefaultMode        = "canny"
)

var dotenvOnce sync.Once

// loadDotenv loads .env once. Missing file is not an error.
func loadDotenv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// Agent holds the Capture-and-Display Agent configuration.
type Agent struct {
	ServerHost string // FRAMECAST_SERVER_HOST (required)
	ServerPort int    // FRAMECAST_SERVER_PORT

	Camera  string // FRAMECAST_CAMERA: device index ("0") or GStreamer pipeline
	Width   int    // FRAMECAST_WIDTH
	Height  int    // FRAMECAST_HEIGHT
	Quality int    // FRAMECAST_QUALITY: JPEG quality 1-100

	Rotate180 bool // FRAMECAST_ROTATE: display mounted upside down
	Headless  bool // FRAMECAST_HEADLESS: discard frames instead of showing a window

	LogLevel string // FRAMECAST_LOG_LEVEL
}

// ServerAddr returns the processing agent address in host:port form.
func (a Agent) ServerAddr() string {
	return fmt.Sprintf("%s:%d", a.ServerHost, a.ServerPort)
}

// LoadAgent reads the agent configuration from the environment.
func LoadAgent() (Agent, error) {
	loadDotenv()

	host := os.Getenv("FRAMECAST_SERVER_HOST")
	if host == "" {
		return Agent{}, fmt.Errorf("config: FRAMECAST_SERVER_HOST is required")
	}

	cfg := Agent{
		ServerHost: host,
		ServerPort: envInt("FRAMECAST_SERVER_PORT", DefaultPort),
		Camera:     envStr("FRAMECAST_CAMERA", "0"),
		Width:      envInt("FRAMECAST_WIDTH", DefaultWidth),
		Height:     envInt("FRAMECAST_HEIGHT", DefaultHeight),
		Quality:    envInt("FRAMECAST_QUALITY", DefaultQuality),
		Rotate180:  envBool("FRAMECAST_ROTATE", false),
		Headless:   envBool("FRAMECAST_HEADLESS", false),
		LogLevel:   envStr("FRAMECAST_LOG_LEVEL", "info"),
	}

	if cfg.Quality < 1 || cfg.Quality > 100 {
		return Agent{}, fmt.Errorf("config: FRAMECAST_QUALITY must be between 1 and 100, got %d", cfg.Quality)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return Agent{}, fmt.Errorf("config: frame size %dx%d is invalid", cfg.Width, cfg.Height)
	}
	return cfg, nil
}

// Processor holds the Processing Agent configuration.
type Processor struct {
	BindHost string // FRAMECAST_BIND_HOST
	Port     int    // FRAMECAST_PORT

	Mode    string // FRAMECAST_MODE: initial processing mode
	Quality int    // FRAMECAST_QUALITY: JPEG quality for processed frames

	MonitorEnabled bool // FRAMECAST_MONITOR
	MonitorPort    int  // FRAMECAST_MONITOR_PORT

	LogLevel string // FRAMECAST_LOG_LEVEL
}

// BindAddr returns the listen address in host:port form.
func (p Processor) BindAddr() string {
	return fmt.Sprintf("%s:%d", p.BindHost, p.Port)
}

// LoadProcessor reads the processor configuration from the environment.
func LoadProcessor() (Processor, error) {
	loadDotenv()

	cfg := Processor{
		BindHost:       envStr("FRAMECAST_BIND_HOST", "0.0.0.0"),
		Port:           envInt("FRAMECAST_PORT", DefaultPort),
		Mode:           envStr("FRAMECAST_MODE", DefaultMode),
		Quality:        envInt("FRAMECAST_QUALITY", DefaultQuality),
		MonitorEnabled: envBool("FRAMECAST_MONITOR", true),
		MonitorPort:    envInt("FRAMECAST_MONITOR_PORT", DefaultMonitorPort),
		LogLevel:       envStr("FRAMECAST_LOG_LEVEL", "info"),
	}

	if cfg.Quality < 1 || cfg.Quality > 100 {
		return Processor{}, fmt.Errorf("config: FRAMECAST_QUALITY must be between 1 and 100, got %d", cfg.Quality)
	}
	return cfg, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
