package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// CampaignConfig holds the campaign-wide planning parameters.
type CampaignConfig struct {
	Name             string  `json:"name" mapstructure:"name"`
	EPSG             int     `json:"epsg" mapstructure:"epsg"`
	MinUnitsPerPoint int     `json:"minUnitsPerPoint" mapstructure:"minUnitsPerPoint"`
	ScoreShape       string  `json:"scoreShape" mapstructure:"scoreShape"`
	Clearance        float64 `json:"clearance" mapstructure:"clearance"`
	MastHeight       float64 `json:"mastHeight" mapstructure:"mastHeight"`
	MaxSlope         float64 `json:"maxSlope" mapstructure:"maxSlope"`
}

// OptimizerConfig holds the placement search parameters.
type OptimizerConfig struct {
	MaxIterations int   `json:"maxIterations" mapstructure:"maxIterations"`
	NoImprove     int   `json:"noImprove" mapstructure:"noImprove"`
	Restarts      int   `json:"restarts" mapstructure:"restarts"`
	Seed          int64 `json:"seed" mapstructure:"seed"`
	Workers       int   `json:"workers" mapstructure:"workers"`
}

// TrajectoryConfig holds the scan timing parameters.
type TrajectoryConfig struct {
	Dwell   time.Duration `json:"dwell" mapstructure:"dwell"`
	Cadence time.Duration `json:"cadence" mapstructure:"cadence"`
}

// UnitConfig describes one lidar unit available to the campaign.
type UnitConfig struct {
	ID              string  `json:"id" mapstructure:"id"`
	Model           string  `json:"model" mapstructure:"model"`
	MinRange        float64 `json:"minRange" mapstructure:"minRange"`
	MaxRange        float64 `json:"maxRange" mapstructure:"maxRange"`
	MaxVelocity     float64 `json:"maxVelocity" mapstructure:"maxVelocity"`
	MaxAcceleration float64 `json:"maxAcceleration" mapstructure:"maxAcceleration"`
}

// MemoryConfig holds in-memory/JSON storage backend settings.
type MemoryConfig struct {
	OutputDir string `json:"outputDir" mapstructure:"outputDir"`
}

// SQLiteConfig holds SQLite storage backend settings.
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// OTelConfig holds OpenTelemetry export settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// Load reads configuration from a YAML file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./plannerlogs")

	viper.SetDefault("campaign.name", "campaign")
	viper.SetDefault("campaign.epsg", 32632)
	viper.SetDefault("campaign.minUnitsPerPoint", 2)
	viper.SetDefault("campaign.scoreShape", "sin")
	viper.SetDefault("campaign.clearance", 2.0)
	viper.SetDefault("campaign.mastHeight", 1.5)
	viper.SetDefault("campaign.maxSlope", 15.0)
	viper.SetDefault("campaign.siteStride", 1)
	viper.SetDefault("campaign.access.x", 0.0)
	viper.SetDefault("campaign.access.y", 0.0)

	viper.SetDefault("optimizer.maxIterations", 1000)
	viper.SetDefault("optimizer.noImprove", 250)
	viper.SetDefault("optimizer.restarts", 4)
	viper.SetDefault("optimizer.seed", 1)
	viper.SetDefault("optimizer.workers", 4)

	viper.SetDefault("trajectory.dwell", "30s")
	viper.SetDefault("trajectory.cadence", "0s")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./campaigns")
	viper.SetDefault("storage.sqlite.path", "./campaigns.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "planner")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "planner-metrics")

	viper.SetDefault("registry.enabled", false)
	viper.SetDefault("registry.url", "http://localhost:5000")
	viper.SetDefault("registry.apiKey", "")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "campaign-planner")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("planner.cfg.yaml")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("yaml")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat returns a float64 config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetCampaignConfig returns the campaign section.
func GetCampaignConfig() CampaignConfig {
	var cfg CampaignConfig
	_ = viper.UnmarshalKey("campaign", &cfg)
	return cfg
}

// GetOptimizerConfig returns the optimizer section.
func GetOptimizerConfig() OptimizerConfig {
	var cfg OptimizerConfig
	_ = viper.UnmarshalKey("optimizer", &cfg)
	return cfg
}

// GetTrajectoryConfig returns the trajectory section. Durations are given
// as strings like "30s".
func GetTrajectoryConfig() TrajectoryConfig {
	return TrajectoryConfig{
		Dwell:   viper.GetDuration("trajectory.dwell"),
		Cadence: viper.GetDuration("trajectory.cadence"),
	}
}

// GetUnits returns the configured lidar units.
func GetUnits() []UnitConfig {
	var units []UnitConfig
	_ = viper.UnmarshalKey("units", &units)
	return units
}

// GetStorageConfig returns the storage section.
func GetStorageConfig() StorageConfig {
	var cfg StorageConfig
	_ = viper.UnmarshalKey("storage", &cfg)
	return cfg
}

// GetOTelConfig returns the otel section.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
