package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"github.com/xvierd/focusflow/internal/domain"
)

var soundsCmd = &cobra.Command{
	Use:   "sounds [query]",
	Short: "List ambient sounds",
	Long:  `List the ambient sound catalogue, optionally filtered by a fuzzy query.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list := domain.Sounds
		if len(args) == 1 {
			list = matchSounds(args[0])
			if len(list) == 0 {
				return fmt.Errorf("no sound matches %q", args[0])
			}
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), list)
		}

		selected := deps.coordinator.State().SelectedSound
		idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
		out := cmd.OutOrStdout()
		for _, s := range list {
			marker := " "
			if selected != nil && *selected == s.ID {
				marker = "●"
			}
			fmt.Fprintf(out, "%s %s %-12s %s\n", marker, s.Icon, s.Name, idStyle.Render(s.ID+" · "+string(s.Category)))
		}
		return nil
	},
}

var soundsPlayCmd = &cobra.Command{
	Use:   "play <query>",
	Short: "Loop an ambient sound until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matches := matchSounds(args[0])
		if len(matches) == 0 {
			return fmt.Errorf("no sound matches %q", args[0])
		}
		sound := matches[0]

		ctx := setupSignalHandler()
		if err := deps.coordinator.PlaySound(ctx, sound.ID); err != nil {
			return fmt.Errorf("failed to play %s: %w", sound.Name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Playing %s. Press Ctrl+C to stop.\n", sound.Icon, sound.Name)

		<-ctx.Done()
		deps.coordinator.StopSound(cmd.Context())
		return nil
	},
}

// soundSource exposes the catalogue to fuzzy matching on "id name".
type soundSource []domain.Sound

func (s soundSource) String(i int) string { return s[i].ID + " " + strings.ToLower(s[i].Name) }
func (s soundSource) Len() int            { return len(s) }

// matchSounds returns catalogue sounds matching query, best first. An exact
// id always wins.
func matchSounds(query string) []domain.Sound {
	query = strings.ToLower(strings.TrimSpace(query))
	if s, ok := domain.FindSound(query); ok {
		return []domain.Sound{s}
	}
	found := fuzzy.FindFrom(query, soundSource(domain.Sounds))
	out := make([]domain.Sound, 0, len(found))
	for _, m := range found {
		out = append(out, domain.Sounds[m.Index])
	}
	return out
}

func init() {
	soundsCmd.AddCommand(soundsPlayCmd)
	rootCmd.AddCommand(soundsCmd)
}
