package services

import "errors"

// Caller-facing error categories. The controller maps these onto HTTP
// status codes; everything else surfaces as an internal error.
var (
	// ErrProjectNotFound means no project exists for the given id.
	ErrProjectNotFound = errors.New("project not found")

	// ErrNoDocument means the operation needs a processed PDF but none
	// has been uploaded for this project.
	ErrNoDocument = errors.New("no PDF processed for this project")

	// ErrEmptyDocument means the uploaded PDF produced no text to index.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrInvalidTopK means the requested result count is out of range.
	ErrInvalidTopK = errors.New("top_k must be at least 1")

	// ErrInvalidDuration means the duration class is not one of the
	// configured short/medium/long buckets.
	ErrInvalidDuration = errors.New("unknown duration class")

	// ErrEmptyScript means the generated script yielded no parseable
	// dialogue segments.
	ErrEmptyScript = errors.New("failed to parse script into segments")

	// ErrNoAudioSegments means every synthesis call failed, so there is
	// nothing to assemble.
	ErrNoAudioSegments = errors.New("no audio segments were synthesized")

	// ErrFileNotFound means a requested audio or source file is missing.
	ErrFileNotFound = errors.New("file not found")
)
