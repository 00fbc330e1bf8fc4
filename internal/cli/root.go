// Package cli implements the operator command line.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/user-registry/internal/config"
	"github.com/dtroode/user-registry/internal/token"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tokengen",
		Short:         "Issue operator tokens for the user registry admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newIssueCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tokengen %s (%s)\n", version, commit)
		},
	}
}

func newIssueCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue <operator-id>",
		Short: "Print a signed bearer token for the operator",
		Long:  "Signs a token with JWT_SECRET unless --secret is given. The token authorizes calls to the Admin service.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("secret") {
				secret = cfg.JWT.Secret
			}
			if !cmd.Flags().Changed("ttl") {
				ttl = cfg.JWT.TTL
			}
			if ttl <= 0 {
				return fmt.Errorf("ttl must be positive")
			}

			access, err := token.NewJWT(secret).GenerateAccessToken(args[0], ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), access)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default: JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: JWT_TTL)")
	return cmd
}
