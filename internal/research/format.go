// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/web-scout/internal/report"
	"github.com/pdiddy/web-scout/pkg/types"
)

// FormatText writes the plan, the report and the run statistics for a terminal.
func FormatText(res *types.ResearchResult, w io.Writer) {
	fmt.Fprintln(w, "Research plan")
	fmt.Fprintln(w, strings.Repeat("-", 13))
	for i, q := range res.Plan {
		fmt.Fprintf(w, "%d. %s\n", i+1, q)
	}
	fmt.Fprintln(w)

	report.Print(w, report.Parse(res.Report))

	if res.Stats == nil {
		return
	}
	fmt.Fprintf(w, "\n%d candidates, %d selected", res.Stats.Candidates, res.Stats.Selected)
	if res.Stats.FailedSubs > 0 {
		fmt.Fprintf(w, ", %d sub-queries failed", res.Stats.FailedSubs)
	}
	if len(res.Stats.StageMS) > 0 {
		names := make([]string, 0, len(res.Stats.StageMS))
		for name := range res.Stats.StageMS {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return stageOrder(names[i]) < stageOrder(names[j]) })
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s %dms", name, res.Stats.StageMS[name])
		}
		fmt.Fprintf(w, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintln(w)
}

// FormatJSON writes res as indented JSON.
func FormatJSON(res *types.ResearchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// FormatYAML writes res as YAML.
func FormatYAML(res *types.ResearchResult, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return err
	}
	return enc.Close()
}

func stageOrder(name string) int {
	switch name {
	case StagePlan:
		return 0
	case StageSearch:
		return 1
	case StageFilter:
		return 2
	case StageSynthesize:
		return 3
	}
	return 4
}
