package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fincorehq/tellerguard/pkg/approval"
)

func newApproveCommand(rt *runtimeState) *cobra.Command {
	var (
		requester string
		approver  string
		account   string
		holder    string
	)

	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Request administrator approval for a destructive account operation",
		Long: "Asks a second principal to authorize a destructive operation such as " +
			"an account closure. The approver's credentials are verified against the " +
			"identity provider and the administrator group; the outcome is written " +
			"to the audit trail either way.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			comp, err := newComponents(rt)
			if err != nil {
				return err
			}
			defer comp.close()

			approvals, err := comp.approvals()
			if err != nil {
				return err
			}

			if approver == "" {
				approver, err = promptLine(rt, "Approver username")
				if err != nil {
					return err
				}
			}
			password, err := promptPassword(rt, "Approver password")
			if err != nil {
				return err
			}

			decision := approvals.RequestApproval(cmd.Context(), approval.Request{
				Requester:        requester,
				ApproverUsername: approver,
				ApproverPassword: password,
				Account:          account,
				Holder:           holder,
			})

			if !decision.Granted {
				fmt.Fprintf(rt.Writer(), "Approval denied: %s\n", decision.Reason)
				return fmt.Errorf("approval denied: %s", decision.Reason)
			}

			fmt.Fprintf(rt.Writer(), "Approval granted by %s for account %s\n",
				decision.Approver, account)
			return nil
		},
	}

	cmd.Flags().StringVar(&requester, "requester", "", "Username of the requesting teller")
	cmd.Flags().StringVar(&approver, "approver", "", "Approver username (prompted when omitted)")
	cmd.Flags().StringVar(&account, "account", "", "Account number the operation targets")
	cmd.Flags().StringVar(&holder, "holder", "", "Account holder name")
	_ = cmd.MarkFlagRequired("requester")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
