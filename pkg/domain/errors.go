package domain

import "errors"

// ErrConfiguration is returned at startup when required configuration
// (such as the classifier credential) is missing or malformed.
var ErrConfiguration = errors.New("configuration error")

// ErrUnknownNode is returned when a node id is not a question of the tree.
var ErrUnknownNode = errors.New("unknown node")

// ErrUnknownLeaf is returned when a leaf id is not a diagnosis of the tree.
var ErrUnknownLeaf = errors.New("unknown diagnosis")

// ErrInvalidAnswer is returned when an answer other than yes/no is supplied.
var ErrInvalidAnswer = errors.New("invalid answer")

// ErrClassificationUnavailable marks any failure of the external classification call.
// It never escapes the classifier.
var ErrClassificationUnavailable = errors.New("classification unavailable")

// ErrInvalidTree is returned when a tree definition violates a structural invariant.
var ErrInvalidTree = errors.New("invalid decision tree")

// ErrEmptySymptoms is returned when a symptom description is missing.
var ErrEmptySymptoms = errors.New("no symptoms provided")

// ErrInvalidInput is returned when free-text input is rejected before use
// (oversized or not valid UTF-8).
var ErrInvalidInput = errors.New("invalid input")
