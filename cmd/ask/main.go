package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/paperqa/paperqa/pkg/client"
)

var (
	server  string
	timeout time.Duration
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask a question about the indexed papers",
		Long: `Sends a question to the paper Q&A service and prints the
formatted JSON answer. The question is taken from the arguments, or read
interactively when none are given.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readQuestion(args, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			body, err := client.New(server, timeout).AskPaper(ctx, question)
			if err != nil {
				return err
			}

			cmd.Print(string(pretty.Pretty(body)))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&server, "server", client.DefaultServer, "Base URL of the paper Q&A service")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 120*time.Second, "Request timeout")

	rootCmd.AddCommand(createPingCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "ping",
		Short:        "Check that the paper Q&A service is up",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			body, err := client.New(server, timeout).Ping(ctx)
			if err != nil {
				return err
			}

			cmd.Print(string(pretty.Pretty(body)))
			return nil
		},
	}
}
