package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pfadmin/pfadmin/internal/prefect"
	"github.com/pfadmin/pfadmin/pkg/types"
)

func newSecretCmd(a *app) *cobra.Command {
	var (
		list    bool
		query   string
		setName string
	)

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage secrets",
		Long: `List secret names, show secret values or set a secret.

Use 'secret -q all' to show the value of every secret.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			switch {
			case setName != "":
				return a.setSecret(ctx, setName)
			case query != "":
				return a.run(ctx, prefect.OpSecretQuery, types.Variables{"secret_name": query})
			case list:
				return a.run(ctx, prefect.OpSecretList, nil)
			}
			return usageError(cmd, "missing arguments")
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "list secret names")
	cmd.Flags().StringVarP(&query, "query", "q", "", "show the value of secret NAME, or of every secret with 'all'")
	cmd.Flags().StringVarP(&setName, "set", "s", "", "set secret NAME, reading the value from the terminal or stdin")

	return cmd
}

func (a *app) setSecret(ctx context.Context, name string) error {
	value, err := a.readSecret(name)
	if err != nil {
		return fmt.Errorf("failed to read secret value: %w", err)
	}
	if value == "" {
		return errors.New("secret value must not be empty")
	}
	return a.run(ctx, prefect.OpSecretSet, types.Variables{
		"input": map[string]any{"name": name, "value": value},
	})
}

// readSecret reads the value without echo when stdin is a terminal, and
// one line otherwise.
func (a *app) readSecret(name string) (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(a.stderr, "Value for secret %s: ", name)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		return string(b), err
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
