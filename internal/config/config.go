package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type RuntimeConfig struct {
	Bind             string
	Port             string
	CdpURL           string
	Token            string
	StateDir         string
	Headless         bool
	ProfileDir       string
	MaxTabs          int
	ChromeBinary     string
	ChromeExtraFlags string
	ActionTimeout    time.Duration
	NavigateTimeout  time.Duration
	ShutdownTimeout  time.Duration
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envBoolOr(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func homeDir() string {
	h, _ := os.UserHomeDir()
	return h
}

func (c *RuntimeConfig) ListenAddr() string {
	return c.Bind + ":" + c.Port
}

type FileConfig struct {
	Port       string `json:"port"`
	CdpURL     string `json:"cdpUrl,omitempty"`
	Token      string `json:"token,omitempty"`
	StateDir   string `json:"stateDir"`
	ProfileDir string `json:"profileDir"`
	Headless   *bool  `json:"headless,omitempty"`
	MaxTabs    *int   `json:"maxTabs,omitempty"`
	TimeoutSec int    `json:"timeoutSec,omitempty"`
}

func Load() *RuntimeConfig {
	cfg := &RuntimeConfig{
		Bind:             envOr("EMUTAB_BIND", "127.0.0.1"),
		Port:             envOr("EMUTAB_PORT", "9321"),
		CdpURL:           os.Getenv("CDP_URL"),
		Token:            os.Getenv("EMUTAB_TOKEN"),
		StateDir:         envOr("EMUTAB_STATE_DIR", filepath.Join(homeDir(), ".emutab")),
		Headless:         envBoolOr("EMUTAB_HEADLESS", true),
		ProfileDir:       envOr("EMUTAB_PROFILE", filepath.Join(homeDir(), ".emutab", "chrome-profile")),
		MaxTabs:          envIntOr("EMUTAB_MAX_TABS", 20),
		ChromeBinary:     os.Getenv("CHROME_BINARY"),
		ChromeExtraFlags: os.Getenv("CHROME_FLAGS"),
		ActionTimeout:    15 * time.Second,
		NavigateTimeout:  30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}

	configPath := envOr("EMUTAB_CONFIG", filepath.Join(homeDir(), ".emutab", "config.json"))

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg
	}

	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return cfg
	}

	if fc.Port != "" && os.Getenv("EMUTAB_PORT") == "" {
		cfg.Port = fc.Port
	}
	if fc.CdpURL != "" && os.Getenv("CDP_URL") == "" {
		cfg.CdpURL = fc.CdpURL
	}
	if fc.Token != "" && os.Getenv("EMUTAB_TOKEN") == "" {
		cfg.Token = fc.Token
	}
	if fc.StateDir != "" && os.Getenv("EMUTAB_STATE_DIR") == "" {
		cfg.StateDir = fc.StateDir
	}
	if fc.ProfileDir != "" && os.Getenv("EMUTAB_PROFILE") == "" {
		cfg.ProfileDir = fc.ProfileDir
	}
	if fc.Headless != nil && os.Getenv("EMUTAB_HEADLESS") == "" {
		cfg.Headless = *fc.Headless
	}
	if fc.MaxTabs != nil && os.Getenv("EMUTAB_MAX_TABS") == "" {
		cfg.MaxTabs = *fc.MaxTabs
	}
	if fc.TimeoutSec > 0 && os.Getenv("EMUTAB_TIMEOUT") == "" {
		cfg.ActionTimeout = time.Duration(fc.TimeoutSec) * time.Second
	}

	return cfg
}

func DefaultFileConfig() FileConfig {
	h := true
	return FileConfig{
		Port:       "9321",
		StateDir:   filepath.Join(homeDir(), ".emutab"),
		ProfileDir: filepath.Join(homeDir(), ".emutab", "chrome-profile"),
		Headless:   &h,
		TimeoutSec: 15,
	}
}

func HandleConfigCommand(cfg *RuntimeConfig) {
	if len(os.Args) < 3 {
		fmt.Println("Usage: emutab config <command>")
		fmt.Println("Commands:")
		fmt.Println("  init    - Create default config file")
		fmt.Println("  show    - Show current configuration")
		return
	}

	switch os.Args[2] {
	case "init":
		configPath := filepath.Join(homeDir(), ".emutab", "config.json")

		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("Config file already exists at %s\n", configPath)
			fmt.Print("Overwrite? (y/N): ")
			var response string
			_, _ = fmt.Scanln(&response)
			if response != "y" && response != "Y" {
				return
			}
		}

		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			fmt.Printf("Error creating directory: %v\n", err)
			os.Exit(1)
		}

		fc := DefaultFileConfig()
		data, _ := json.MarshalIndent(fc, "", "  ")
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			fmt.Printf("Error writing config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Config file created at %s\n", configPath)

	case "show":
		fmt.Println("Current configuration:")
		fmt.Printf("  Port:      %s\n", cfg.Port)
		fmt.Printf("  CDP URL:   %s\n", cfg.CdpURL)
		fmt.Printf("  Token:     %s\n", MaskToken(cfg.Token))
		fmt.Printf("  State Dir: %s\n", cfg.StateDir)
		fmt.Printf("  Profile:   %s\n", cfg.ProfileDir)
		fmt.Printf("  Headless:  %v\n", cfg.Headless)
		fmt.Printf("  Max Tabs:  %d\n", cfg.MaxTabs)
		fmt.Printf("  Timeouts:  action=%v navigate=%v\n", cfg.ActionTimeout, cfg.NavigateTimeout)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[2])
		os.Exit(1)
	}
}

func MaskToken(t string) string {
	if t == "" {
		return "(none)"
	}
	if len(t) <= 8 {
		return "***"
	}
	return t[:4] + "..." + t[len(t)-4:]
}
