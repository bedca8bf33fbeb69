package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vbonduro/glowreader/internal/history"
	"github.com/vbonduro/glowreader/internal/interpret"
	"github.com/vbonduro/glowreader/internal/terminal"
)

var replayTyping time.Duration

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, replay or clear past readings stored on this device",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past readings, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		state, err := openLocalState()
		if err != nil {
			return err
		}
		defer state.Close()
		state.welcome(cmd)

		entries, err := state.history.List(cmd.Context())
		if err != nil {
			return err
		}
		styles := terminal.DefaultStyles()
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), styles.Muted.Render("No readings yet."))
			return nil
		}
		idCol := lipgloss.NewStyle().Width(15)
		dateCol := lipgloss.NewStyle().Width(22)
		fmt.Fprintln(cmd.OutOrStdout(), styles.Value.Render(idCol.Render("ID")+dateCol.Render("DATE")+"TYPE"))
		for _, e := range entries {
			fmt.Fprintln(cmd.OutOrStdout(), idCol.Render(strconv.FormatInt(e.ID, 10))+dateCol.Render(e.Date)+e.Type)
		}
		return nil
	},
}

var historyReplayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Render a past reading again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		state, err := openLocalState()
		if err != nil {
			return err
		}
		defer state.Close()

		view, err := newTerminalView()
		if err != nil {
			return err
		}
		interp := interpret.New(shopFromConfig(cfg), logger)
		if _, err := state.history.Replay(cmd.Context(), id, interp, view); err != nil {
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("no reading with id %d; see \"glowreader history list\"", id)
			}
			return err
		}
		return terminal.Reveal(cmd.Context(), cmd.OutOrStdout(), view.Lines(), replayTyping)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored reading",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		state, err := openLocalState()
		if err != nil {
			return err
		}
		defer state.Close()

		if err := state.history.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

func init() {
	historyReplayCmd.Flags().DurationVar(&replayTyping, "typing", 0, "delay between revealed lines, e.g. 15ms")
	historyCmd.AddCommand(historyListCmd, historyReplayCmd, historyClearCmd)
}
