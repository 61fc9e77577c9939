package types

// Fragment is the transcribed text of a single audio segment. Index is the
// segment's position in original chronological order and is what assembly
// sorts by, so fragments stay correct even if they were produced out of order.
type Fragment struct {
	Index int
	Text  string
}

// Transcript is the assembled text for one input file.
type Transcript struct {
	Fragments []Fragment
	Text      string
}

// Summary is the optional condensed rendition of a transcript.
type Summary struct {
	Language string
	Text     string
}
