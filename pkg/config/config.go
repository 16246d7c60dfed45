package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "imgosint.yaml"

// Config holds imgosint configuration.
type Config struct {
	Tools    ToolsConfig         `yaml:"tools"`
	Timeouts TimeoutsConfig      `yaml:"timeouts"`
	Recovery RecoveryConfig      `yaml:"recovery"`
	Signals  map[string][]string `yaml:"signals"` // tool name -> extra success phrases
	Vision   VisionConfig        `yaml:"vision"`
	Logging  LoggingConfig       `yaml:"logging"`
	Batch    BatchConfig         `yaml:"batch"`
	WorkDir  string              `yaml:"work_dir"` // downloads land here
}

// ToolsConfig names the external binaries. Values may be absolute paths.
type ToolsConfig struct {
	Strings   string `yaml:"strings"`
	Grep      string `yaml:"grep"`
	Findstr   string `yaml:"findstr"`
	Binwalk   string `yaml:"binwalk"`
	Zsteg     string `yaml:"zsteg"`
	Steghide  string `yaml:"steghide"`
	Tesseract string `yaml:"tesseract"`
}

// TimeoutsConfig holds per-invocation limits. Zero disables the limit.
type TimeoutsConfig struct {
	Probe   Duration `yaml:"probe"`
	Binwalk Duration `yaml:"binwalk"`
	Extract Duration `yaml:"extract"`
	OCR     Duration `yaml:"ocr"`
}

type RecoveryConfig struct {
	OutputPath        string `yaml:"output_path"`
	HeartbeatInterval int    `yaml:"heartbeat_interval"` // failed candidates between heartbeats
	UniqueOutput      bool   `yaml:"unique_output"`      // allocate a fresh artifact path per run
}

type VisionConfig struct {
	OutputDir      string  `yaml:"output_dir"`
	ELAQuality     int     `yaml:"ela_quality"`
	ModelDir       string  `yaml:"model_dir"` // holds mobilenet_ssd.onnx and optionally the onnxruntime library
	ObjectMinScore float64 `yaml:"object_min_score"`
	MaxDetections  int     `yaml:"max_detections"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// Duration is a time.Duration that unmarshals from strings like "5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns a default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tools: ToolsConfig{
			Strings:   "strings",
			Grep:      "grep",
			Findstr:   "findstr",
			Binwalk:   "binwalk",
			Zsteg:     "zsteg",
			Steghide:  "steghide",
			Tesseract: "tesseract",
		},
		Timeouts: TimeoutsConfig{
			Probe:   Duration(5 * time.Second),
			Binwalk: Duration(30 * time.Second),
			Extract: Duration(10 * time.Second),
			OCR:     Duration(60 * time.Second),
		},
		Recovery: RecoveryConfig{
			OutputPath:        "output.bin",
			HeartbeatInterval: 500,
		},
		Signals: map[string][]string{},
		Vision: VisionConfig{
			OutputDir:      ".",
			ELAQuality:     90,
			ObjectMinScore: 0.4,
			MaxDetections:  100,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		WorkDir: "imgosint_work",
	}
}

// applyDefaults fills zero values left by a partial YAML file.
func applyDefaults(cfg *Config) {
	def := Default()

	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&cfg.Tools.Strings, def.Tools.Strings)
	fill(&cfg.Tools.Grep, def.Tools.Grep)
	fill(&cfg.Tools.Findstr, def.Tools.Findstr)
	fill(&cfg.Tools.Binwalk, def.Tools.Binwalk)
	fill(&cfg.Tools.Zsteg, def.Tools.Zsteg)
	fill(&cfg.Tools.Steghide, def.Tools.Steghide)
	fill(&cfg.Tools.Tesseract, def.Tools.Tesseract)
	fill(&cfg.Recovery.OutputPath, def.Recovery.OutputPath)
	fill(&cfg.Vision.OutputDir, def.Vision.OutputDir)
	fill(&cfg.Logging.Level, def.Logging.Level)
	fill(&cfg.Logging.Format, def.Logging.Format)
	fill(&cfg.WorkDir, def.WorkDir)

	if cfg.Recovery.HeartbeatInterval == 0 {
		cfg.Recovery.HeartbeatInterval = def.Recovery.HeartbeatInterval
	}
	if cfg.Vision.ELAQuality == 0 {
		cfg.Vision.ELAQuality = def.Vision.ELAQuality
	}
	if cfg.Vision.ObjectMinScore == 0 {
		cfg.Vision.ObjectMinScore = def.Vision.ObjectMinScore
	}
	if cfg.Vision.MaxDetections == 0 {
		cfg.Vision.MaxDetections = def.Vision.MaxDetections
	}
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = def.Batch.Workers
	}
	if cfg.Signals == nil {
		cfg.Signals = map[string][]string{}
	}
}
