package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	General   GeneralConfig   `toml:"general"`
	Runtime   RuntimeConfig   `toml:"runtime"`
	Data      DataConfig      `toml:"data"`
	Scripting ScriptingConfig `toml:"scripting"`
	Logging   LoggingConfig   `toml:"logging"`
}

type GeneralConfig struct {
	EnableTimelines bool `toml:"enable_timelines"`

	// Which animation tags tear a pair down, and whether the teardown
	// also clears morph accumulators (scale restore is always cheap;
	// morph clearing is visible and therefore gated).
	ResetOnPairEnd         bool `toml:"reset_on_pair_end"`
	ResetOnPairedStop      bool `toml:"reset_on_paired_stop"`
	ResetMorphsOnPairEnd   bool `toml:"reset_morphs_on_pair_end"`
	ResetMorphsOnPairedStop bool `toml:"reset_morphs_on_paired_stop"`

	// Max range for distance-based target resolution, in scene units.
	TargetResolveMaxDist float64 `toml:"target_resolve_max_dist"`

	// Per-operation logging (every scale/morph/vis write).
	LogOps bool `toml:"log_ops"`
}

type RuntimeConfig struct {
	TickRate         time.Duration `toml:"tick_rate"`
	MaxDt            float64       `toml:"max_dt"` // seconds; tick clamp ceiling
	RequestQueueSize int           `toml:"request_queue_size"`
	TaskQueueSize    int           `toml:"task_queue_size"`
	MaxTasksPerTick  int           `toml:"max_tasks_per_tick"`
}

type DataConfig struct {
	TimelineFile string `toml:"timeline_file"`
}

type ScriptingConfig struct {
	ScriptsDir string `toml:"scripts_dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			EnableTimelines:         true,
			ResetOnPairEnd:          true,
			ResetOnPairedStop:       true,
			ResetMorphsOnPairEnd:    true,
			ResetMorphsOnPairedStop: true,
			TargetResolveMaxDist:    250.0,
			LogOps:                  false,
		},
		Runtime: RuntimeConfig{
			TickRate:         50 * time.Millisecond,
			MaxDt:            0.25,
			RequestQueueSize: 256,
			TaskQueueSize:    1024,
			MaxTasksPerTick:  0, // unlimited
		},
		Data: DataConfig{
			TimelineFile: "data/timelines.yaml",
		},
		Scripting: ScriptingConfig{
			ScriptsDir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
