package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "In-game commands",
	}

	cmd.AddCommand(newPlayWordCmd())
	cmd.AddCommand(newPlaySignullCmd())
	cmd.AddCommand(newPlayConnectCmd())
	cmd.AddCommand(newPlayGuessCmd())

	return cmd
}

func newPlayWordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "word <code> <word>",
		Short: "Commit the secret word (setter only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, word := args[0], args[1]

			req := map[string]string{"word": word}
			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/word", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlaySignullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signull <code> <word> <clue...>",
		Short: "Post a signull for your teammates (guessers only)",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, word := args[0], args[1]
			clue := strings.Join(args[2:], " ")

			req := map[string]string{"word": word, "clue": clue}
			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/signulls", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <code> <signull-id> <guess>",
		Short: "Guess a signull's word; the setter's guess is an intercept",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, signullID, guess := args[0], args[1], args[2]

			req := map[string]string{"guess": guess}
			var result ConnectResult

			path := fmt.Sprintf("/api/v1/rooms/%s/signulls/%s/connect", code, signullID)
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <code> <word>",
		Short: "Spend a shared direct guess on the secret word",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, word := args[0], args[1]

			req := map[string]string{"guess": word}
			var result GuessResult

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/guess", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
