package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rush-shell/rush/core"
	"github.com/rush-shell/rush/core/config"
	"github.com/rush-shell/rush/core/state"
)

var (
	cfgPath string
	oneShot string
)

// rootCmd starts the interactive loop when called without flags.
var rootCmd = &cobra.Command{
	Use:   "rush",
	Short: "An interactive command interpreter",
	Long: `rush is an interactive command interpreter with pipelines,
redirections, job chaining and directory-stack builtins.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys := afero.NewOsFs()
		env := state.NewEnvironFromList(os.Environ())

		path := cfgPath
		if path == "" {
			path = filepath.Join(env.Get("HOME"), config.ConfigName)
		}
		cfg, err := config.Load(fsys, path)
		if err != nil {
			return err
		}

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		st := state.NewWithEnv(cwd, env, cfg.HistorySize)

		sh, err := core.NewShell(cfg, fsys, st, os.Stdin, os.Stdout, os.Stderr)
		if err != nil {
			return err
		}

		if oneShot != "" {
			status, _ := sh.Eval(oneShot)
			os.Exit(status)
		}
		os.Exit(sh.Run())
		return nil
	},
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.Flags().StringVar(&cfgPath, "config", "", "config file (default ~/"+config.ConfigName+")")
	rootCmd.Flags().StringVarP(&oneShot, "command", "c", "", "evaluate a single line and exit")
}
