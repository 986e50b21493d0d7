package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/triage/pkg/domain"
)

// ValidateDefinition checks a tree definition for ambiguous or missing ids,
// broken links, cycles, unreachable nodes and dangling entry points.
// Every violation is collected; the returned error wraps domain.ErrInvalidTree.
func ValidateDefinition(def domain.Definition) error {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	// 1. Classify every identifier into exactly one kind
	kinds := make(map[string]domain.NodeKind, len(def.Questions)+len(def.Diagnoses))
	classify := func(id string, kind domain.NodeKind) {
		if id == "" {
			report("%s with empty id", kind)
			return
		}
		if prev, ok := kinds[id]; ok {
			if prev == kind {
				report("duplicate %s id '%s'", kind, id)
			} else {
				report("ambiguous id '%s' is both a %s and a %s", id, prev, kind)
			}
			return
		}
		kinds[id] = kind
	}
	for _, q := range def.Questions {
		classify(q.ID, domain.KindQuestion)
		if strings.TrimSpace(q.Text) == "" {
			report("question '%s' has no text", q.ID)
		}
	}
	for _, d := range def.Diagnoses {
		classify(d.ID, domain.KindDiagnosis)
		if strings.TrimSpace(d.Text) == "" {
			report("diagnosis '%s' has no text", d.ID)
		}
	}

	// 2. Root must be a question
	if kinds[def.Root] != domain.KindQuestion {
		report("root '%s' is not a question", def.Root)
	}

	// 3. Transitions must land on a known id
	edges := make(map[string][]string, len(def.Questions))
	for _, q := range def.Questions {
		for _, a := range domain.Answers {
			target := q.Next(a)
			if target == "" {
				report("question '%s' has no '%s' transition", q.ID, a)
				continue
			}
			if _, ok := kinds[target]; !ok {
				report("question '%s' answer '%s' points to missing node '%s'", q.ID, a, target)
				continue
			}
			edges[q.ID] = append(edges[q.ID], target)
		}
	}

	// 4. Entry points must target questions, labels must be unique
	labels := make(map[string]bool, len(def.Entries))
	for _, e := range def.Entries {
		switch {
		case strings.TrimSpace(e.Label) == "":
			report("entry point for '%s' has no label", e.NodeID)
		case e.Label == domain.NoMatchLabel:
			report("entry label '%s' is reserved", e.Label)
		case labels[e.Label]:
			report("duplicate entry label '%s'", e.Label)
		}
		labels[e.Label] = true
		if kinds[e.NodeID] != domain.KindQuestion {
			report("entry '%s' points to '%s', which is not a question", e.Label, e.NodeID)
		}
	}

	if len(problems) == 0 {
		// Only a well-linked graph can be crawled meaningfully.
		if cycle := findCycle(def.Root, edges); cycle != nil {
			report("cycle: %s", strings.Join(cycle, " -> "))
		}
		visited := crawl(def.Root, edges)
		for _, id := range orderedIDs(def) {
			if !visited[id] {
				report("node '%s' is unreachable from '%s'", id, def.Root)
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: found %d errors:\n- %s", domain.ErrInvalidTree, len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

// crawl walks the graph breadth-first from root.
func crawl(root string, edges map[string][]string) map[string]bool {
	visited := make(map[string]bool)
	queue := []string{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, next := range edges[current] {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}
	return visited
}

// findCycle returns one cycle reachable from root, or nil.
func findCycle(root string, edges map[string][]string) []string {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int)
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, next := range edges[id] {
			switch color[next] {
			case white:
				if dfs(next) {
					return true
				}
			case gray:
				for i, s := range stack {
					if s == next {
						cycle = append(append([]string{}, stack[i:]...), next)
						return true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	if dfs(root) {
		return cycle
	}
	return nil
}

func orderedIDs(def domain.Definition) []string {
	ids := make([]string, 0, len(def.Questions)+len(def.Diagnoses))
	for _, q := range def.Questions {
		ids = append(ids, q.ID)
	}
	for _, d := range def.Diagnoses {
		ids = append(ids, d.ID)
	}
	return ids
}

// Errors splits an aggregated validation error back into its individual problems.
func Errors(err error) []string {
	if err == nil || !errors.Is(err, domain.ErrInvalidTree) {
		return nil
	}
	_, list, ok := strings.Cut(err.Error(), "\n- ")
	if !ok {
		return nil
	}
	return strings.Split(list, "\n- ")
}
