package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-api/internal/platform/auth"
)

func newAccountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage librarian accounts",
	}
	cmd.AddCommand(newAccountAddCmd(a))
	return cmd
}

func newAccountAddCmd(a *app) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "add ID",
		Short: "Create an account; the password is read from the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			conn, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			svc := auth.NewService(conn, a.cfg.Auth)
			if err := svc.Register(cmd.Context(), args[0], password, role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s created (role=%s)\n", args[0], role)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", auth.RoleLibrarian, "librarian|admin")
	return cmd
}

// readPassword masks input on a terminal; パイプ入力なら1行読むだけ。
func readPassword(in io.Reader, prompt io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("empty password")
	}
	return line, nil
}
