package cmd

import (
	"fmt"

	"github.com/nikogura/letter-tailor/pkg/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Writes a default config to $HOME/.letter-tailor/config.json (or --config).

Edit it to set your API key, provider and the path to your contact profile
(JSON or YAML with full_name, email, location and optional phone, linkedin,
portfolio and professional_title).`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	path := getConfigFile()
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	err = config.InitConfig(path)
	if err != nil {
		err = errors.Wrap(err, "failed to create config")
		return err
	}

	fmt.Printf("Config written to %s\n", path)
	return err
}
