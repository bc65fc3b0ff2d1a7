// Package graph renders flow definitions as Mermaid flowcharts for
// documentation and debugging.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sellwise/funnel/pkg/domain"
)

// Overlay contains dynamic conversation state to visualize on the graph.
type Overlay struct {
	VisitedBlocks []string
	CurrentBlock  string
}

// GenerateMermaid produces Mermaid flowchart syntax for a flow. Stages
// become subgraphs, option edges carry their display text, and the timer
// alternates render as dotted edges labeled with their outcome. Overlay
// styles (visited/current) are applied if provided.
func GenerateMermaid(flow *domain.Flow, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	inStage := make(map[string]bool)
	for _, stage := range flow.Stages {
		sb.WriteString(fmt.Sprintf("    subgraph %s\n", sanitizeMermaidID(stage.Name)))
		for _, id := range stage.BlockIDs {
			if _, ok := flow.Block(id); !ok {
				continue
			}
			inStage[id] = true
			writeBlockLabel(&sb, flow, id, "        ")
		}
		sb.WriteString("    end\n")
	}

	// Blocks outside any stage still render, just unboxed.
	orphans := make([]string, 0)
	for id := range flow.Blocks {
		if !inStage[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		writeBlockLabel(&sb, flow, id, "    ")
	}

	ids := make([]string, 0, len(flow.Blocks))
	for id := range flow.Blocks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		block := flow.Blocks[id]
		safeID := sanitizeMermaidID(id)

		for _, opt := range block.Options {
			if opt.NextBlockID == "" {
				continue
			}
			label := strings.ReplaceAll(opt.Text, "\"", "'")
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeID, label, sanitizeMermaidID(opt.NextBlockID)))
		}
		if block.UpsellBlockID != "" {
			sb.WriteString(fmt.Sprintf("    %s -. \"bought\" .-> %s\n", safeID, sanitizeMermaidID(block.UpsellBlockID)))
		}
		if block.DownsellBlockID != "" {
			sb.WriteString(fmt.Sprintf("    %s -. \"didn't buy\" .-> %s\n", safeID, sanitizeMermaidID(block.DownsellBlockID)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high-contrast on light backgrounds, regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedBlocks {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		if overlay.CurrentBlock != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentBlock)))
		}
	}

	return sb.String()
}

func writeBlockLabel(sb *strings.Builder, flow *domain.Flow, id, indent string) {
	block, _ := flow.Block(id)
	safeID := sanitizeMermaidID(id)

	opener, closer := "[", "]"
	switch {
	case id == flow.StartBlockID:
		opener, closer = "((", "))" // Circle
	case block.HasTimerTargets():
		opener, closer = "[[", "]]" // Subroutine, successor decided later
	}

	if block.TimeoutMinutes > 0 {
		sb.WriteString(fmt.Sprintf("%s%s%s\"%s <br/> ⏱️ %dm\"%s\n", indent, safeID, opener, id, block.TimeoutMinutes, closer))
		return
	}
	sb.WriteString(fmt.Sprintf("%s%s%s\"%s\"%s\n", indent, safeID, opener, id, closer))
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
