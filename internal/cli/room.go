package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomKickCmd())
	cmd.AddCommand(newRoomSettingsCmd())
	cmd.AddCommand(newRoomSetterCmd())
	cmd.AddCommand(newRoomStartCmd())
	cmd.AddCommand(newRoomResetCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Post("/api/v1/rooms", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Room

			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s", code), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/join", code), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/leave", code), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left room %s", code))
			return nil
		},
	}
}

func newRoomKickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kick <code> <player-id>",
		Short: "Remove a player from the room (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, playerID := args[0], args[1]

			if err := client.Delete(fmt.Sprintf("/api/v1/rooms/%s/players/%s", code, playerID)); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Kicked %s from room %s", playerID, code))
			return nil
		},
	}
}

func newRoomSettingsCmd() *cobra.Command {
	var (
		mode       string
		connects   int
		maxPlayers int
		timeLimit  int
		strict     bool
		prefix     bool
		breakdown  bool
	)

	cmd := &cobra.Command{
		Use:   "settings <code>",
		Short: "Update room settings (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			req := map[string]any{
				"mode":                 mode,
				"connects_required":    connects,
				"max_players":          maxPlayers,
				"time_limit_seconds":   timeLimit,
				"strict_words":         strict,
				"prefix_mode":          prefix,
				"show_score_breakdown": breakdown,
			}
			var result Room

			if err := client.Patch(fmt.Sprintf("/api/v1/rooms/%s/settings", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "round_robin", "Play mode: round_robin, free")
	cmd.Flags().IntVar(&connects, "connects", 2, "Connects required to resolve a signull")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 8, "Maximum players in the room")
	cmd.Flags().IntVar(&timeLimit, "time-limit", 0, "Per-signull time limit in seconds (0 = untimed)")
	cmd.Flags().BoolVar(&strict, "strict-words", false, "Restrict words to plain A-Z")
	cmd.Flags().BoolVar(&prefix, "prefix-mode", false, "Signull words must extend the revealed prefix")
	cmd.Flags().BoolVar(&breakdown, "score-breakdown", true, "Show the per-event score breakdown")

	return cmd
}

func newRoomSetterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setter <code> <player-id>",
		Short: "Hand the setter role to another player (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, playerID := args[0], args[1]

			req := map[string]string{"new_setter_id": playerID}
			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/setter", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Start the game (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/start", code), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <code>",
		Short: "Return an ended room to the lobby (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/reset", code), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
