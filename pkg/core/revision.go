package core

import (
	"fmt"
	"strings"
	"time"
)

// HashLength is the length of a full (SHA-1) git object name.
const HashLength = 40

// revisionDateLayouts are tried in order when decoding the date part of a long-form token.
// The list is fixed so parsing does not depend on the process locale.
var revisionDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05 -0700", // git --date=iso
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"Mon Jan 2 15:04:05 2006 -0700", // git default
	time.UnixDate,
	time.ANSIC,
	time.RubyDate,
	"2006-01-02",
}

// Revision identifies a point in the history: a commit hash, optionally paired with its timestamp.
// Values are immutable once returned by ParseRevision or NewRevision.
type Revision struct {
	Hash      string
	Timestamp *time.Time
}

// NewRevision builds a revision from a hash and an optional timestamp.
func NewRevision(hash string, ts *time.Time) *Revision {
	r := &Revision{Hash: hash}
	if ts != nil {
		t := *ts
		r.Timestamp = &t
	}
	return r
}

// ParseRevision decodes a revision token.
//
// Grammar:
//
//	token     = ""                  ; no revision, returns nil
//	          | hash                ; 1..40 characters, taken verbatim
//	          | date "[" hex40 ["]"] ; longer than 40 characters
//
// Short tokens are not validated; consumers decide whether they name a commit.
// A long token without "[" or with a bad date or hash returns ErrMalformedRevision.
func ParseRevision(token string) (*Revision, error) {
	if token == "" {
		return nil, nil
	}

	if len(token) <= HashLength {
		return &Revision{Hash: token}, nil
	}

	idx := strings.IndexByte(token, '[')
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q has no '[' delimiter", ErrMalformedRevision, token)
	}

	datePart := strings.TrimSpace(token[:idx])
	hash := strings.TrimSuffix(token[idx+1:], "]")

	if len(hash) != HashLength || !isHex(hash) {
		return nil, fmt.Errorf("%w: hash %q is not %d hex characters", ErrMalformedRevision, hash, HashLength)
	}

	ts, err := parseRevisionDate(datePart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRevision, err)
	}

	return &Revision{Hash: hash, Timestamp: &ts}, nil
}

func parseRevisionDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range revisionDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// HasTimestamp reports whether the revision carries a commit date.
func (r *Revision) HasTimestamp() bool {
	return r != nil && r.Timestamp != nil
}

// Short returns the abbreviated hash used in listings.
func (r *Revision) Short() string {
	if r == nil {
		return ""
	}
	if len(r.Hash) > 8 {
		return r.Hash[:8]
	}
	return r.Hash
}

// Equal compares hash and timestamp.
func (r *Revision) Equal(other *Revision) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Hash != other.Hash {
		return false
	}
	if r.HasTimestamp() != other.HasTimestamp() {
		return false
	}
	return !r.HasTimestamp() || r.Timestamp.Equal(*other.Timestamp)
}

// String encodes the revision back into token form.
// Timestamped revisions with a full hash round-trip through ParseRevision.
func (r *Revision) String() string {
	if r == nil {
		return ""
	}
	if r.Timestamp == nil {
		return r.Hash
	}
	return r.Timestamp.Format(time.RFC3339) + "[" + r.Hash
}
