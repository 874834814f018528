package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfadmin/pfadmin/internal/config"
	"github.com/pfadmin/pfadmin/internal/gql"
)

const defaultConfig = `# pfadmin configuration

# GraphQL endpoint. PREFECT__CLOUD__API, PREFECT__CLOUD__API_KEY and
# PREFECT__CLOUD__TENANT_ID override these values.
api:
  url: http://localhost:4200/graphql
  # api_key: ${PREFECT__CLOUD__API_KEY}
  # tenant_id: ""
  # headers:
  #   X-Request-Source: pfadmin

# Output format: text, json or yaml
output:
  format: text

# Logging settings
logging:
  level: W
  format: auto
  output: stderr
  # config: ~/.config/pfadmin/logging.yaml

# Local history of executed operations
history:
  enabled: true
  path: ~/.config/pfadmin/history.db

# Directory of GraphQL descriptor files (*.yaml, *.yml, *.json)
queries:
  dir: ~/.config/pfadmin/queries
`

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Commands for managing pfadmin configuration.`,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  `Display the current configuration values. The API key is masked.`,
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *a.cfg
			if cfg.API.APIKey != "" {
				cfg.API.APIKey = "********"
			}
			return printYAML(a.stdout, cfg)
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := config.ConfigPath()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			fmt.Fprintf(a.stdout, "Config file path: %s\n", configPath)

			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				fmt.Fprintln(a.stdout, "(file does not exist)")
			} else {
				fmt.Fprintln(a.stdout, "(file exists)")
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long:  `Create a default configuration file.`,
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.EnsureConfigDir(); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			configPath, err := config.ConfigPath()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}

			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("config file already exists: %s", configPath)
			}

			if err := os.WriteFile(configPath, []byte(defaultConfig), 0600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}
			fmt.Fprintf(a.stdout, "Created config file: %s\n", configPath)
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a GraphQL descriptor file",
		Long:  `Parse and validate a descriptor file without registering it.`,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateDescriptors(args[0])
		},
	}

	cmd.AddCommand(showCmd, pathCmd, initCmd, validateCmd)
	return cmd
}

func (a *app) validateDescriptors(path string) error {
	res := gql.ValidateFile(path)
	if !res.Valid {
		fmt.Fprint(a.stdout, res.FormatErrors())
		return fmt.Errorf("%s: %d validation error(s)", path, len(res.Errors))
	}

	descs, err := gql.ParseFile(path)
	if err != nil {
		return err
	}
	for _, d := range descs {
		if _, exists := a.registry.Describe(d.Name); exists {
			fmt.Fprintf(a.stdout, "%s: name is already registered\n", d.Name)
		}
	}
	fmt.Fprintf(a.stdout, "%s: %d valid operation(s)\n", path, len(descs))
	return nil
}
