package models

// PodcastSegment is one speaker turn of dialogue, the unit of speech
// synthesis. VoiceID is determined solely by which host name matched.
type PodcastSegment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	VoiceID string `json:"-"`
}

// SegmentFailure records one synthesis call that was skipped.
type SegmentFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// SynthesisReport is the outcome of a batch synthesis run. Files holds the
// per-segment clips that succeeded, in script order; Failed lists the
// segments that were skipped.
type SynthesisReport struct {
	Files  []string
	Failed []SegmentFailure
}
