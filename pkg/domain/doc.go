/*
Package domain contains the core domain models of the triage engine.

It defines the entities of the yes/no decision tree and of the symptom
classification contract. The package is kept pure and free of I/O, network
and persistence concerns, so every adapter (HTTP, MCP, CLI) can share it.

# Key Entities

  - Question: a node of the tree holding a yes/no question and two transitions.
  - Diagnosis: a terminal leaf holding a first-aid recommendation.
  - EntryPoint: a classifier label bound to the question where traversal should begin.
  - Step: the result of a traversal, tagged as a question or a diagnosis.
  - LifecycleHooks: callbacks used by observability sinks.
*/
package domain
