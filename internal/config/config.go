package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultBoundaryURL is the Natural Earth 1:110m admin-0 countries GeoJSON.
const DefaultBoundaryURL = "https://raw.githubusercontent.com/nvkelso/natural-earth-vector/master/geojson/ne_110m_admin_0_countries.geojson"

// DefaultShapefileURL is the same dataset packaged as a zipped shapefile.
const DefaultShapefileURL = "https://naciscdn.org/naturalearth/110m/cultural/ne_110m_admin_0_countries.zip"

// Config holds the full application configuration.
type Config struct {
	Boundary  BoundaryConfig  `yaml:"boundary" mapstructure:"boundary"`
	Grid      GridConfig      `yaml:"grid" mapstructure:"grid"`
	Metadata  MetadataConfig  `yaml:"metadata" mapstructure:"metadata"`
	Visualize VisualizeConfig `yaml:"visualize" mapstructure:"visualize"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// BoundaryConfig configures the country boundary dataset and its cache.
type BoundaryConfig struct {
	URL          string `yaml:"url" mapstructure:"url"`
	ShapefileURL string `yaml:"shapefile_url" mapstructure:"shapefile_url"`
	// Format is "geojson" or "shapefile".
	Format      string `yaml:"format" mapstructure:"format"`
	CachePath   string `yaml:"cache_path" mapstructure:"cache_path"`
	TempDir     string `yaml:"temp_dir" mapstructure:"temp_dir"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// SourceURL returns the download URL for the configured format.
func (b BoundaryConfig) SourceURL() string {
	if b.Format == "shapefile" {
		return b.ShapefileURL
	}
	return b.URL
}

// CacheFile returns the cache location for the configured format. A
// shapefile download is cached next to the GeoJSON path with a .zip suffix.
func (b BoundaryConfig) CacheFile() string {
	if b.Format == "shapefile" && strings.HasSuffix(b.CachePath, ".geojson") {
		return strings.TrimSuffix(b.CachePath, ".geojson") + ".zip"
	}
	return b.CachePath
}

// GridConfig names the hexcell input and the enriched output.
type GridConfig struct {
	Input  string `yaml:"input" mapstructure:"input"`
	Output string `yaml:"output" mapstructure:"output"`
}

// MetadataConfig configures the metadata builder.
type MetadataConfig struct {
	Centerpoints bool   `yaml:"centerpoints" mapstructure:"centerpoints"`
	RulesPath    string `yaml:"rules_path" mapstructure:"rules_path"`
}

// VisualizeConfig configures the PNG preview.
type VisualizeConfig struct {
	Output       string  `yaml:"output" mapstructure:"output"`
	Width        int     `yaml:"width" mapstructure:"width"`
	LabelSize    float64 `yaml:"label_size" mapstructure:"label_size"`
	Centerpoints bool    `yaml:"centerpoints" mapstructure:"centerpoints"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LANDGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("boundary.url", DefaultBoundaryURL)
	v.SetDefault("boundary.shapefile_url", DefaultShapefileURL)
	v.SetDefault("boundary.format", "geojson")
	v.SetDefault("boundary.cache_path", "ne_110m_admin_0_countries.geojson")
	v.SetDefault("boundary.temp_dir", "/tmp/landgrid")
	v.SetDefault("boundary.timeout_secs", 60)
	v.SetDefault("boundary.user_agent", "landgrid/1.0")
	v.SetDefault("grid.input", "landgrid_wgs84.geojson")
	v.SetDefault("grid.output", "landgrid_wgs84_metadata.geojson")
	v.SetDefault("metadata.centerpoints", true)
	v.SetDefault("metadata.rules_path", "")
	v.SetDefault("visualize.output", "landgrid_continents.png")
	v.SetDefault("visualize.width", 4000)
	v.SetDefault("visualize.label_size", 14)
	v.SetDefault("visualize.centerpoints", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command depends on. mode is the
// subcommand name: "metadata", "visualize" or "inspect".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "metadata":
		switch c.Boundary.Format {
		case "geojson", "shapefile":
		default:
			errs = append(errs, "boundary.format must be geojson or shapefile")
		}
		if c.Boundary.SourceURL() == "" {
			errs = append(errs, "boundary url is required")
		}
		if c.Boundary.CachePath == "" {
			errs = append(errs, "boundary.cache_path is required")
		}
		if c.Boundary.TimeoutSecs <= 0 {
			errs = append(errs, "boundary.timeout_secs must be > 0")
		}
		if c.Grid.Input == "" {
			errs = append(errs, "grid.input is required")
		}
		if c.Grid.Output == "" {
			errs = append(errs, "grid.output is required")
		}
	case "visualize":
		if c.Grid.Output == "" {
			errs = append(errs, "grid.output is required")
		}
		if c.Visualize.Output == "" {
			errs = append(errs, "visualize.output is required")
		}
		if c.Visualize.Width < 360 {
			errs = append(errs, "visualize.width must be >= 360")
		}
		if c.Visualize.LabelSize <= 0 {
			errs = append(errs, "visualize.label_size must be > 0")
		}
	case "inspect":
		if c.Grid.Output == "" {
			errs = append(errs, "grid.output is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
