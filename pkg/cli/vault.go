package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEncryptCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <plaintext>",
		Short: "Encrypt a value with the vault key",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			comp, err := newComponents(rt)
			if err != nil {
				return err
			}
			defer comp.close()

			v, err := comp.vault()
			if err != nil {
				return err
			}
			ciphertext, err := v.Encrypt(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(rt.Writer(), ciphertext)
			return nil
		},
	}
}

func newDecryptCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt <ciphertext>",
		Short: "Decrypt a vault-encrypted value",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			comp, err := newComponents(rt)
			if err != nil {
				return err
			}
			defer comp.close()

			v, err := comp.vault()
			if err != nil {
				return err
			}
			plaintext, err := v.Decrypt(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(rt.Writer(), plaintext)
			return nil
		},
	}
}
