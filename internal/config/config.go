// Package config handles converter configuration loading and management.
package config

// Config holds all converter settings.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	UVMap   UVMapConfig   `yaml:"uv_map"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig controls OBJ emission.
type OutputConfig struct {
	Suffix      string `yaml:"suffix"`       // Appended to the input path
	Comment     bool   `yaml:"comment"`      // Write a provenance comment line
	ObjectNames bool   `yaml:"object_names"` // Emit an "o" statement named after the input
}

// UVMapConfig controls the optional UV coverage image written next to the OBJ.
type UVMapConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Format      string `yaml:"format"` // png, webp or tga
	Size        int    `yaml:"size"`
	Supersample int    `yaml:"supersample"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Suffix:      ".obj",
			Comment:     true,
			ObjectNames: false,
		},
		UVMap: UVMapConfig{
			Enabled:     false,
			Format:      "png",
			Size:        512,
			Supersample: 2,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
