package domain

const (
	// RootID is the entry node used whenever no AI-assisted entry point applies.
	RootID = "start"

	// InitialSentinel resets a traversal to RootID when supplied to Advance
	// in place of a node id or an answer.
	InitialSentinel = "initial"

	// NoMatchLabel is what the classifier is told to answer when no category applies.
	NoMatchLabel = "No Match"
)
