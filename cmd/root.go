package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivemoreminix/workbench/internal/config"
	"github.com/fivemoreminix/workbench/internal/log"
)

const debugLogPath = "workbench.log"

var (
	version = "dev"
	cfgFile string
	debug   bool

	cfg config.Config
	// cfgPath is the file the config was read from, or the user config path
	// when none exists. View > Toggle appearance writes to it.
	cfgPath  string
	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "workbench [files...]",
	Short: "A terminal code editor with syntax highlighting",
	Long: `A terminal code editor with tabs, menus and regex-based syntax highlighting.

Files given on the command line are opened in tabs. Press Escape to reach the
menu bar. Files changed on disk are reloaded when they have no unsaved edits.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE:               runEditor,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .workbench/config.yaml, then ~/.config/workbench/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write debug logs (to log.path, or "+debugLogPath+")")

	rootCmd.AddCommand(highlightCmd, languagesCmd)
}

// setup loads the configuration and starts logging when asked to.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, cfgPath, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}

	logPath := cfg.Log.Path
	if debug && logPath == "" {
		logPath = debugLogPath
	}
	if logPath == "" {
		return nil
	}

	closeFn, err := log.Init(logPath)
	if err != nil {
		return fmt.Errorf("starting log: %w", err)
	}
	closeLog = closeFn
	if debug {
		log.SetMinLevel(log.LevelDebug)
	} else {
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
	}
	log.Info(log.CatConfig, "Loaded config", "path", cfgPath, "appearance", cfg.Appearance)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	closeLog()
	closeLog = func() {}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
