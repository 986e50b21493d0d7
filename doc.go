/*
Package triage is a guided first-aid triage assistant.

A fixed yes/no decision tree leads a bystander from a first question to an
emergency recommendation. A free-text symptom description can optionally be
classified by a hosted language model to skip straight to the most relevant
branch; when classification is unavailable the session simply starts at the
root question.

# Concept

The tree is built once, validated at construction and never mutated. The
Assistant holds no per-session state: each call receives the current node id
and returns the next Step, so any transport (HTTP, MCP, terminal) can drive
a session.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/triage"
	)

	func main() {
		a, err := triage.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		step, err := a.Advance(ctx, "start", "yes")
		if err != nil {
			log.Fatal(err)
		}
		for !step.Terminal() {
			fmt.Println(step.Text)
			step, err = a.Advance(ctx, step.NodeID, "no")
			if err != nil {
				log.Fatal(err)
			}
		}
		fmt.Println(step.Text)
	}
*/
package triage
