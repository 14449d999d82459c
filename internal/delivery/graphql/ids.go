package graphql

import (
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

// Node kinds encoded into global ids.
const (
	kindSpeaker  = "Speaker"
	kindSession  = "Session"
	kindTrack    = "Track"
	kindAttendee = "Attendee"
)

func marshalID(kind string, id int) graphql.ID {
	return relay.MarshalID(kind, id)
}

// unmarshalID returns the numeric id encoded in id, or 0 when id is malformed or of
// another kind. No row has id 0, so callers treat it as missing.
func unmarshalID(kind string, id graphql.ID) int {
	if relay.UnmarshalKind(id) != kind {
		return 0
	}
	var n int
	if err := relay.UnmarshalSpec(id, &n); err != nil {
		return 0
	}
	return n
}

func unmarshalIDs(kind string, ids []graphql.ID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = unmarshalID(kind, id)
	}
	return out
}
