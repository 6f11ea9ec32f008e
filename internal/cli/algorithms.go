package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/algotrace/internal/search"
	"github.com/roach88/algotrace/internal/sorting"
)

// SortAlgorithmInfo describes one sort algorithm.
type SortAlgorithmInfo struct {
	Name          string `json:"name"`
	Display       string `json:"display"`
	Stable        bool   `json:"stable"`
	Probabilistic bool   `json:"probabilistic"`
}

// SearchAlgorithmInfo describes one search algorithm.
type SearchAlgorithmInfo struct {
	Name    string `json:"name"`
	Display string `json:"display"`
	Optimal bool   `json:"optimal"`
}

// AlgorithmsResult is the JSON payload of the algorithms command.
type AlgorithmsResult struct {
	Sort   []SortAlgorithmInfo   `json:"sort"`
	Search []SearchAlgorithmInfo `json:"search"`
}

// NewAlgorithmsCommand creates the algorithms command.
func NewAlgorithmsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "algorithms",
		Short:         "List the sort and search algorithms",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlgorithms(rootOpts, cmd)
		},
	}
}

func listAlgorithms() AlgorithmsResult {
	var result AlgorithmsResult
	for _, a := range sorting.Algorithms() {
		result.Sort = append(result.Sort, SortAlgorithmInfo{
			Name:          string(a),
			Display:       a.DisplayName(),
			Stable:        a.Stable(),
			Probabilistic: a.Probabilistic(),
		})
	}
	for _, a := range search.Algorithms() {
		result.Search = append(result.Search, SearchAlgorithmInfo{
			Name:    string(a),
			Display: a.DisplayName(),
			Optimal: a.Optimal(),
		})
	}
	return result
}

func runAlgorithms(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	result := listAlgorithms()

	if formatter.JSON() {
		return formatter.Respond(CLIResponse{Status: "ok", Data: result})
	}

	w := formatter.Writer
	fmt.Fprintln(w, "Sort:")
	for _, a := range result.Sort {
		var notes string
		if a.Stable {
			notes += " stable"
		}
		if a.Probabilistic {
			notes += " probabilistic"
		}
		fmt.Fprintf(w, "  %-10s %-15s%s\n", a.Name, a.Display, notes)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Search:")
	for _, a := range result.Search {
		var notes string
		if a.Optimal {
			notes = " shortest path"
		}
		fmt.Fprintf(w, "  %-10s %-15s%s\n", a.Name, a.Display, notes)
	}
	return nil
}
