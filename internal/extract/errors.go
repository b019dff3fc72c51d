package extract

import (
	"errors"
	"fmt"
)

// ErrAnchorNotFound means the page no longer carries the embedded data block.
// It is the usual sign that the tracker changed its markup.
type ErrAnchorNotFound struct {
	Anchor string
}

func (e ErrAnchorNotFound) Error() string {
	return fmt.Sprintf("could not find the `%s` data block, the tracker page changed and the bot needs an update", e.Anchor)
}

type ErrPayloadMalformed struct {
	Anchor string
	Err    error
}

func (e ErrPayloadMalformed) Error() string {
	return fmt.Sprintf("found `%s` but its content is not valid JSON: %v", e.Anchor, e.Err)
}

func (e ErrPayloadMalformed) Unwrap() error {
	return e.Err
}

// ErrPathMissing reports the first path step whose key was absent.
type ErrPathMissing struct {
	Index int
	Step  string
}

func (e ErrPathMissing) Error() string {
	return fmt.Sprintf("field path step %d (`%s`) is missing from the payload", e.Index, e.Step)
}

// ErrPathTypeMismatch reports a step whose value could not be walked: a
// non-terminal value that is not an object, or a terminal value that is not
// a list.
type ErrPathTypeMismatch struct {
	Index int
	Step  string
	Want  string
	Got   string
}

func (e ErrPathTypeMismatch) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("payload root is %s, expected %s", e.Got, e.Want)
	}
	return fmt.Sprintf("field path step %d (`%s`) is %s, expected %s", e.Index, e.Step, e.Got, e.Want)
}

// ErrorType returns a stable label for an extraction error, or "" when err
// is not one of the extraction failure classes.
func ErrorType(err error) string {
	var anchor ErrAnchorNotFound
	if errors.As(err, &anchor) {
		return "anchor_not_found"
	}
	var malformed ErrPayloadMalformed
	if errors.As(err, &malformed) {
		return "payload_malformed"
	}
	var missing ErrPathMissing
	if errors.As(err, &missing) {
		return "path_missing"
	}
	var mismatch ErrPathTypeMismatch
	if errors.As(err, &mismatch) {
		return "path_type_mismatch"
	}
	return ""
}
