// Package cli implements the hangerlink command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chazu/hangerlink/pkg/buildinfo"
	"github.com/chazu/hangerlink/pkg/config"
	"github.com/chazu/hangerlink/pkg/propagate"
	"github.com/chazu/hangerlink/pkg/scene"
	"github.com/chazu/hangerlink/pkg/scene/memory"
	"github.com/chazu/hangerlink/pkg/scenefile"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer
}

// New creates a CLI writing results to out and logs to logw.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Out: out,
		Logger: log.NewWithOptions(logw, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "hangerlink",
		Short:        "hangerlink hides and selects pipe hangers together with their pipes",
		Long:         `hangerlink finds the hangers (clamps and portal frames) attached to pipes by bounding-box geometry, hides the hangers of pipes hidden in a view, and extends pipe selections with their hangers.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	root.AddCommand(c.hideCommand())
	root.AddCommand(c.selectCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// =============================================================================
// Shared loading
// =============================================================================

// sceneFlags are the flags shared by commands that operate on a scene.
type sceneFlags struct {
	scene  string
	config string
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.scene, "scene", "s", "", "scene file (YAML)")
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "engine configuration (TOML)")
	_ = cmd.MarkFlagRequired("scene")
}

// workspace is a loaded scene with its configuration.
type workspace struct {
	cfg    *config.Config
	scene  *scenefile.Scene
	engine *propagate.Engine
}

func (c *CLI) loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.Logger.Debug("loaded config", "path", path)
	return cfg, nil
}

func sceneOptions(cfg *config.Config) scenefile.Options {
	return scenefile.Options{
		Rules:        cfg.RuleEngine(),
		HostCategory: scene.Category(cfg.HostCategory),
		Categories:   []scene.Category{scene.Category(cfg.HangerCategory)},
	}
}

func (c *CLI) open(f sceneFlags) (*workspace, error) {
	cfg, err := c.loadConfig(f.config)
	if err != nil {
		return nil, err
	}
	s, err := scenefile.Load(f.scene, sceneOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	for _, w := range s.Warnings {
		c.Logger.Warn(w.Message, "element", w.Element, "view", w.View)
	}

	opts := cfg.EngineOptions(s.Units)
	opts.Logger = c.Logger
	en := propagate.New(s.Doc, cfg.Classifier(s.Units), opts)
	c.Logger.Debug("loaded scene", "path", f.scene, "elements", s.Doc.Len(), "units", s.Units,
		"thickness", en.Classifier().Thickness, "padding", opts.Padding)
	return &workspace{cfg: cfg, scene: s, engine: en}, nil
}

// views resolves a view name, or every view when name is empty.
func (w *workspace) views(name string) ([]*memory.View, error) {
	if name == "" {
		vs := w.scene.Doc.Views()
		if len(vs) == 0 {
			return nil, fmt.Errorf("scene has no views")
		}
		return vs, nil
	}
	v, err := w.scene.Doc.Lookup(name)
	if err != nil {
		return nil, err
	}
	return []*memory.View{v}, nil
}

func formatIDs(ids []scene.ElementID) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(int64(id), 10)
	}
	return strings.Join(parts, ",")
}

func readScene(path string) (*scenefile.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return scenefile.Parse(data)
}

func itoa(n int) string { return strconv.Itoa(n) }
