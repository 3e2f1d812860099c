package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level configuration struct for the application.
// It holds settings for logging, the API, and every recognized knob of the
// security engine. Tags are used by Viper to map YAML keys to struct fields.
type Config struct {
	LogLevel string         `mapstructure:"log_level"`
	APIPort  string         `mapstructure:"api_port"`
	Security SecurityConfig `mapstructure:"security"`
	Scanner  ScannerConfig  `mapstructure:"scanner"`
	Threats  ThreatsConfig  `mapstructure:"threatlog"`
	Dirs     DirsConfig     `mapstructure:"dirs"`
}

// SecurityConfig drives the background monitoring loop.
type SecurityConfig struct {
	ScanInterval           time.Duration `mapstructure:"scan_interval"`
	SuspiciousProcessNames []string      `mapstructure:"suspicious_process_names"`
	SuspiciousPorts        []uint32      `mapstructure:"suspicious_ports"`
	ProcessCPUThreshold    float64       `mapstructure:"process_cpu_threshold"`
	ProcessMemoryThreshold float64       `mapstructure:"process_memory_threshold"`
	CPUThreatThreshold     float64       `mapstructure:"cpu_threat_threshold"`
	MemoryThreatThreshold  float64       `mapstructure:"memory_threat_threshold"`
	DiskThreatThreshold    float64       `mapstructure:"disk_threat_threshold"`
	CPUWarningThreshold    float64       `mapstructure:"cpu_warning_threshold"`
	MemoryWarningThreshold float64       `mapstructure:"memory_warning_threshold"`
	DiskWarningThreshold   float64       `mapstructure:"disk_warning_threshold"`
}

// ScannerConfig drives the on-demand file scanner.
type ScannerConfig struct {
	LargeFileThreshold  int64    `mapstructure:"large_file_threshold"`
	EntropyThreshold    float64  `mapstructure:"entropy_threshold"`
	DangerousExtensions []string `mapstructure:"dangerous_extensions"`
	KnownBadHashes      []string `mapstructure:"known_bad_hashes"`
}

// ThreatsConfig bounds the threat log.
type ThreatsConfig struct {
	Capacity      int `mapstructure:"capacity"`
	RetentionDays int `mapstructure:"retention_days"`
}

// DirsConfig locates the writable directories the engine uses.
type DirsConfig struct {
	Logs       string `mapstructure:"logs"`
	Quarantine string `mapstructure:"quarantine"`
}

// LoadConfig reads the configuration from a YAML file (e.g., config.yaml) and
// environment variables. It uses Viper for robust configuration management,
// allowing for defaults and environment variable overrides.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")
	v.AddConfigPath(".")            // Search in current directory
	v.AddConfigPath("/etc/aegisd/") // Search in /etc/aegisd/

	setDefaults(v)

	// Read environment variables
	v.SetEnvPrefix("AEGISD")                           // Look for AEGISD_ prefix
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // Replace dots with underscores for nested keys
	v.AutomaticEnv()                                   // Automatically bind environment variables to config keys

	// Read configuration file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults and environment variables.")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("api_port", "8080")

	v.SetDefault("security.scan_interval", "300s")
	v.SetDefault("security.suspicious_process_names", []string{
		"keylogger", "trojan", "malware", "virus",
		"backdoor", "rootkit", "spyware",
	})
	v.SetDefault("security.suspicious_ports", []uint32{1337, 31337, 12345, 54321, 9999})
	v.SetDefault("security.process_cpu_threshold", 90.0)
	v.SetDefault("security.process_memory_threshold", 50.0)
	v.SetDefault("security.cpu_threat_threshold", 95.0)
	v.SetDefault("security.memory_threat_threshold", 90.0)
	v.SetDefault("security.disk_threat_threshold", 95.0)
	v.SetDefault("security.cpu_warning_threshold", 80.0)
	v.SetDefault("security.memory_warning_threshold", 85.0)
	v.SetDefault("security.disk_warning_threshold", 90.0)

	v.SetDefault("scanner.large_file_threshold", int64(100*1024*1024))
	v.SetDefault("scanner.entropy_threshold", 7.5)
	v.SetDefault("scanner.dangerous_extensions", []string{
		".exe", ".scr", ".bat", ".cmd", ".pif", ".com", ".vbs", ".js",
	})
	v.SetDefault("scanner.known_bad_hashes", []string{
		"44d88612fea8a8f36de82e1278abb02f",
	})

	v.SetDefault("threatlog.capacity", 1000)
	v.SetDefault("threatlog.retention_days", 30)

	v.SetDefault("dirs.logs", "logs")
	v.SetDefault("dirs.quarantine", "data/quarantine")
}
