package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/khawaidev/koye-ai-cli-start/internal/apiclient"
	"github.com/khawaidev/koye-ai-cli-start/internal/clientstate"
	"github.com/khawaidev/koye-ai-cli-start/internal/identity"
	"github.com/khawaidev/koye-ai-cli-start/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a Koye project in the current directory",
	Long: `Create koye.config.json and the asset directories for a new project.

Safe to re-run: an existing config prompts before being overwritten.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if project.Exists(".") {
		overwrite, err := promptConfirm("koye.config.json already exists. Overwrite?", false)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(warnStyle.Render("Keeping existing config."))
			return nil
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	name, err := promptLine(fmt.Sprintf("Project name [%s]: ", filepath.Base(cwd)))
	if err != nil {
		return err
	}
	if name == "" {
		name = filepath.Base(cwd)
	}

	servers := resolveServers()
	client := apiclient.New(servers.Start, nil)
	initCfg, err := client.FetchInitConfig(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch init config: %w", err)
	}

	cfg := project.Config{
		Version:     initCfg.Version,
		ProjectName: name,
		ProjectID:   uuid.NewString(),
		Plan:        identity.PlanFree,
		Servers: project.Servers{
			Start: initCfg.Servers.Start,
			Main:  initCfg.Servers.Main,
			Web:   initCfg.Servers.Web,
		},
		Assets:   initCfg.Assets,
		Features: initCfg.Features,
	}

	// Pick up the active user when someone already logged in on this machine.
	if rec, err := clientstate.Load(); err == nil {
		cfg.UserID = rec.User.ID
		cfg.Plan = rec.User.Plan
	} else if !errors.Is(err, clientstate.ErrNotLoggedIn) {
		return err
	}

	if err := cfg.Save("."); err != nil {
		return err
	}
	if err := cfg.ScaffoldAssets("."); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("Initialized " + name))
	if cfg.UserID == "" {
		fmt.Println("Next: koye register (or koye login if you have an account)")
	}
	return nil
}
