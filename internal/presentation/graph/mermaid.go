package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/triage/pkg/domain"
)

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// Options tunes GenerateMermaid output.
type Options struct {
	// Root is drawn as a circle. Defaults to domain.RootID.
	Root string
	// ShowText labels nodes with their question or recommendation text
	// instead of their ids.
	ShowText bool
	Overlay  *GraphOverlay
}

// GenerateMermaid produces a Mermaid flowchart from a list of nodes.
// It applies semantic styling:
// - Root: ((Circle))
// - Question: {Rhombus}
// - Diagnosis: ([Stadium])
// Edges carry their answer as label.
func GenerateMermaid(nodes []domain.Node, opts Options) string {
	root := opts.Root
	if root == "" {
		root = domain.RootID
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "{", "}"
		switch {
		case node.ID == root:
			opener, closer = "((", "))"
		case node.Kind == domain.KindDiagnosis:
			opener, closer = "([", "])"
		}

		label := node.ID
		if opts.ShowText {
			label = escapeLabel(node.Text)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for _, t := range node.Transitions {
			fmt.Fprintf(&sb, "    %s -- %s --> %s\n", safeID, t.Answer, sanitizeMermaidID(t.ToNodeID))
		}
	}

	sb.WriteString("\n    classDef diagnosis fill:#ffebee,stroke:#c62828,color:#000;\n")
	for _, node := range nodes {
		if node.Kind == domain.KindDiagnosis {
			fmt.Fprintf(&sb, "    class %s diagnosis;\n", sanitizeMermaidID(node.ID))
		}
	}

	if overlay := opts.Overlay; overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}

// escapeLabel makes free text safe inside a quoted Mermaid label.
func escapeLabel(s string) string {
	return strings.NewReplacer("\"", "#quot;", "\n", " ").Replace(s)
}
