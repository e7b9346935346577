package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bodyfx/engine/internal/config"
	"github.com/bodyfx/engine/internal/core/event"
	coresys "github.com/bodyfx/engine/internal/core/system"
	"github.com/bodyfx/engine/internal/data"
	"github.com/bodyfx/engine/internal/scripting"
	"github.com/bodyfx/engine/internal/system"
	"github.com/bodyfx/engine/internal/timeline"
	"github.com/bodyfx/engine/internal/trigger"
	"github.com/bodyfx/engine/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m           bodyfx engine  v0.1.0           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      paired-animation timeline host       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main host logic ───────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/bodyfx.toml"
	if p := os.Getenv("BODYFX_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Load timeline data
	printSection("data")

	table, err := data.Load(cfg.Data.TimelineFile, log)
	if err != nil {
		return fmt.Errorf("load timelines: %w", err)
	}

	luaEngine, err := scripting.NewEngine(cfg.Scripting.ScriptsDir, table, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("lua scripts loaded")

	printStat("timelines", table.TimelineCount())
	printStat("event mappings", table.EventCount())
	printStat("vis groups", len(table.VisGroups()))
	fmt.Println()

	// 4. Build the scene and runtime
	scene := world.NewState(cfg.Runtime.TaskQueueSize, log)
	mut := world.NewMutator(scene, log)
	mut.SetVisGroups(table.VisGroups())
	rt := timeline.NewRuntime(mut, cfg.Runtime.MaxDt, log)

	// Demo actors standing next to each other.
	alice := scene.Spawn("Alice", 0, 0, 0)
	scene.Spawn("Bob", 50, 0, 0)
	printStat("actors", scene.Count())

	// 5. Wire systems
	bus := event.NewBus()
	trigger.NewDispatcher(cfg, table, rt, scene, log).Attach(bus)

	events := make(chan event.AnimationEvent, cfg.Runtime.RequestQueueSize)
	runner := coresys.NewRunner()
	runner.Register(system.NewIntakeSystem(events, bus, cfg.Runtime.RequestQueueSize, log))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewTimelineTickSystem(rt))
	runner.Register(system.NewTaskDrainSystem(scene, cfg.Runtime.MaxTasksPerTick))

	// 6. Run the loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Runtime.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("loop started (tick: %s)", cfg.Runtime.TickRate))
	fmt.Println()

	if !cfg.General.EnableTimelines {
		log.Warn("timelines disabled by config; loop will idle")
	}

	// Kick off every mapped demo event once so a bare `bodyfx` run shows
	// something moving. Hosts embed the packages instead of this binary.
	events <- event.AnimationEvent{Caster: alice, Tag: "PairStart_demo"}

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Runtime.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
