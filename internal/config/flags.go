package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log-file", "", "Also write logs to this file")
	flagSuffix  = flag.String("suffix", "", "Output suffix appended to each input path")
	flagUVMap   = flag.String("uvmap", "", "Write a UV coverage image (png, webp or tga)")
	flagUVSize  = flag.Int("uvmap-size", 0, "UV coverage image size in pixels")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagSuffix != "" {
		cfg.Output.Suffix = *flagSuffix
	}
	if *flagUVMap != "" {
		cfg.UVMap.Enabled = true
		cfg.UVMap.Format = *flagUVMap
	}
	if *flagUVSize > 0 {
		cfg.UVMap.Size = *flagUVSize
	}
}
