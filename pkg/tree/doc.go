/*
Package tree holds the immutable yes/no decision tree.

A Tree is built once from a domain.Definition. Construction classifies every
identifier as a question or a diagnosis and rejects the definition if any id is
ambiguous, any transition dangles, the graph has a cycle, or a node cannot be
reached from the root. After that the Tree has no mutable state and may be
shared by any number of goroutines.

	t, err := tree.New(def)
	if err != nil {
		log.Fatal(err) // refuse to start
	}
	step, err := t.Transition(domain.RootID, domain.AnswerNo)
*/
package tree
