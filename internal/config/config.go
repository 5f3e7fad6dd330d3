package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the application configuration, loaded from config.toml
// next to the executable.
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Pipeline PipelineConfig `toml:"pipeline"`
	PDF      PDFConfig      `toml:"pdf"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	MaxUploadMB int  `toml:"max_upload_mb"`
}

// DataConfig holds the on-disk layout. The archives subdirectory is the
// retention target for generated zips; it is a side effect only and is
// never read back by the pipeline.
type DataConfig struct {
	DataDir        string `toml:"data_dir"`
	RetainArchives bool   `toml:"retain_archives"`
}

// PipelineConfig bounds one generation job.
type PipelineConfig struct {
	Workers        int `toml:"workers"`
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// PDFConfig holds rendering settings.
type PDFConfig struct {
	FontPath string `toml:"font_path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        5000,
			DevMode:     false,
			MaxUploadMB: 32,
		},
		Data: DataConfig{
			DataDir:        "data",
			RetainArchives: true,
		},
		Pipeline: PipelineConfig{
			Workers:        4,
			TimeoutSeconds: 120,
		},
	}
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig loads config.toml from the executable's directory, falling
// back to defaults when the file is absent. PAYSLIPGEN_* environment
// variables override individual values for packaged runs.
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
		// config file absent, defaults apply
	default:
		return nil, err
	}

	applyEnvOverrides(config)
	return config, nil
}

func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("PAYSLIPGEN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("PAYSLIPGEN_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("PAYSLIPGEN_FONT_PATH"); v != "" {
		config.PDF.FontPath = v
	}
	if v := os.Getenv("PAYSLIPGEN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Pipeline.Workers = n
		}
	}
}

// EnsureDataDir creates the data directory and its "archives"
// subdirectory, the retention target for generated zips.
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(filepath.Join(dataDir, "archives"), 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// ArchivesDir returns the retention directory under an ensured data dir.
func ArchivesDir(dataDir string) string {
	return filepath.Join(dataDir, "archives")
}
