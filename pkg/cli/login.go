package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand(rt *runtimeState) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate a teller against the identity provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			comp, err := newComponents(rt)
			if err != nil {
				return err
			}
			defer comp.close()

			sess, err := comp.session()
			if err != nil {
				return err
			}

			if username == "" {
				username, err = promptLine(rt, "Username")
				if err != nil {
					return err
				}
			}
			password, err := promptPassword(rt, "Password")
			if err != nil {
				return err
			}

			if !sess.Authenticate(cmd.Context(), username, password) {
				fmt.Fprintln(rt.Writer(), "Login failed.")
				return fmt.Errorf("authentication failed for %s", username)
			}

			fmt.Fprintf(rt.Writer(), "Logged in as %s (teller=%t administrator=%t)\n",
				sess.CurrentUsername(), sess.IsTeller(), sess.IsAdministrator())
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when omitted)")

	return cmd
}
