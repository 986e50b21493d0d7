package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/triage/internal/presentation/tui"
	"github.com/aretw0/triage/pkg/domain"
)

// Assistant is the subset of triage.Assistant a terminal session drives.
type Assistant interface {
	StartFromSymptoms(ctx context.Context, symptoms string) (domain.Step, error)
	Advance(ctx context.Context, currentNodeID, answer string) (domain.Step, error)
}

// SessionOptions configures a single interactive triage session.
type SessionOptions struct {
	In  io.Reader
	Out io.Writer
	// Symptoms, when set, is used instead of prompting for a description.
	Symptoms string
	// Plain disables glamour rendering.
	Plain bool
	// JSON emits one JSON object per step (NDJSON) and no prose.
	JSON bool
	// Quiet suppresses the banner and disclaimer.
	Quiet   bool
	Version string
}

// StepRecord is the NDJSON shape of a step in JSON mode.
type StepRecord struct {
	Status  string `json:"status"`
	NodeID  string `json:"node_id,omitempty"`
	Text    string `json:"text,omitempty"`
	Message string `json:"message,omitempty"`
}

var quitWords = map[string]bool{"q": true, "quit": true, "exit": true}

// RunSession walks the tree with answers read line by line from opts.In.
// It returns the last step shown, which is a diagnosis unless the user quit,
// input ended or ctx was cancelled.
func RunSession(ctx context.Context, a Assistant, opts SessionOptions) (domain.Step, error) {
	// Stops the line reader once the session returns.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := &session{
		assistant: a,
		opts:      opts,
		render:    tui.NewRenderer(opts.Plain),
		lines:     readLines(ctx, opts.In),
	}
	return s.run(ctx)
}

type session struct {
	assistant Assistant
	opts      SessionOptions
	render    func(string) (string, error)
	lines     <-chan string
}

func (s *session) run(ctx context.Context) (domain.Step, error) {
	if !s.opts.Quiet && !s.opts.JSON {
		tui.PrintBanner(s.opts.Out, s.opts.Version)
		s.print(tui.Disclaimer + "\n")
	}

	symptoms := s.opts.Symptoms
	if symptoms == "" {
		s.prompt("Describe the symptoms (leave empty to start from the first question): ")
		line, ok, err := s.next(ctx)
		if err != nil || !ok {
			return domain.Step{}, err
		}
		symptoms = line
	}

	step, err := s.start(ctx, symptoms)
	if err != nil {
		return domain.Step{}, err
	}

	s.show(step)
	for !step.Terminal() {
		s.prompt("> ")
		line, ok, err := s.next(ctx)
		if err != nil || !ok {
			return step, err
		}

		answer := normalizeAnswer(line)
		if quitWords[answer] {
			return step, nil
		}

		next, err := s.assistant.Advance(ctx, step.NodeID, answer)
		if errors.Is(err, domain.ErrInvalidAnswer) {
			s.warn("Please answer yes or no.")
			continue
		}
		if err != nil {
			return step, err
		}
		step = next
		s.show(step)
	}
	return step, nil
}

func (s *session) start(ctx context.Context, symptoms string) (domain.Step, error) {
	if strings.TrimSpace(symptoms) == "" {
		return s.assistant.Advance(ctx, domain.InitialSentinel, domain.InitialSentinel)
	}
	return s.assistant.StartFromSymptoms(ctx, symptoms)
}

// next blocks for the following input line. ok is false once input is exhausted.
func (s *session) next(ctx context.Context) (string, bool, error) {
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case line, ok := <-s.lines:
		return line, ok, nil
	}
}

func (s *session) show(step domain.Step) {
	if s.opts.JSON {
		s.emit(StepRecord{Status: string(step.Kind), NodeID: step.NodeID, Text: step.Text})
		return
	}
	s.print(tui.StepMarkdown(step))
}

func (s *session) warn(msg string) {
	if s.opts.JSON {
		s.emit(StepRecord{Status: "error", Message: msg})
		return
	}
	fmt.Fprintln(s.opts.Out, msg)
}

func (s *session) prompt(p string) {
	if !s.opts.JSON {
		fmt.Fprint(s.opts.Out, p)
	}
}

func (s *session) print(markdown string) {
	out, err := s.render(markdown)
	if err != nil {
		out = markdown
	}
	fmt.Fprint(s.opts.Out, out)
}

func (s *session) emit(rec StepRecord) {
	_ = json.NewEncoder(s.opts.Out).Encode(rec)
}

// normalizeAnswer lowercases input and expands the y/n shorthands.
func normalizeAnswer(line string) string {
	answer := strings.ToLower(strings.TrimSpace(line))
	switch answer {
	case "y":
		return string(domain.AnswerYes)
	case "n":
		return string(domain.AnswerNo)
	}
	return answer
}

// readLines scans r in the background so reads can be abandoned on
// cancellation. The goroutine exits when ctx is done or r is exhausted; a
// read already blocked on r returns only when r does.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
