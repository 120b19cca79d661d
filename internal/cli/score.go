package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kavirubc/gh-scout/internal/scoring"
	"github.com/Kavirubc/gh-scout/pkg/models"
)

// signalsFile is the on-disk form of a scoring input
type signalsFile struct {
	TechStack     models.TechStackSignal     `json:"tech_stack_signal"`
	User          models.UserSkillSignal     `json:"user_signal"`
	Profile       models.ProfileData         `json:"profile"`
	Contributions models.ContributionQuality `json:"contributions"`
}

func (s signalsFile) input() scoring.Input {
	return scoring.Input{
		TechStack:     s.TechStack,
		User:          s.User,
		Profile:       s.Profile,
		Contributions: s.Contributions,
	}
}

func readSignals(path string) (*signalsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signals file: %w", err)
	}

	var s signalsFile
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse signals file: %w", err)
	}
	return &s, nil
}

func newScoreCmd() *cobra.Command {
	var (
		inputPath string
		markdown  bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score stored classifier signals without calling GitHub",
		Long: `Run only the scoring engine on a JSON file of signals:

  {"tech_stack_signal": {...}, "user_signal": {...}, "profile": {...}, "contributions": {...}}

Prints a summary table, or with --markdown the exact comment that would be posted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			signals, err := readSignals(inputPath)
			if err != nil {
				return err
			}

			report := scoring.Calculate(signals.input())
			if markdown {
				fmt.Print(scoring.Render(report))
				return nil
			}

			fmt.Print(renderReport(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "path to signals JSON file")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print the rendered issue comment")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
