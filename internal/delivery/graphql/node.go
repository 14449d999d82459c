package graphql

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

type node interface {
	ID() graphql.ID
}

type nodeResolver struct {
	node
}

func (n *nodeResolver) ToSpeaker() (*speakerResolver, bool) {
	r, ok := n.node.(*speakerResolver)
	return r, ok
}

func (n *nodeResolver) ToSession() (*sessionResolver, bool) {
	r, ok := n.node.(*sessionResolver)
	return r, ok
}

func (n *nodeResolver) ToTrack() (*trackResolver, bool) {
	r, ok := n.node.(*trackResolver)
	return r, ok
}

func (n *nodeResolver) ToAttendee() (*attendeeResolver, bool) {
	r, ok := n.node.(*attendeeResolver)
	return r, ok
}

// Node resolves any global id. Unknown kinds and missing rows resolve to null.
func (r *Resolver) Node(ctx context.Context, args struct{ ID graphql.ID }) (*nodeResolver, error) {
	req := r.forContext(ctx)
	kind := relay.UnmarshalKind(args.ID)
	id := unmarshalID(kind, args.ID)

	var (
		n   node
		err error
	)
	switch kind {
	case kindSpeaker:
		var sp *speakerResolver
		if sp, err = req.speakerByID(ctx, id); sp != nil {
			n = sp
		}
	case kindSession:
		var s *sessionResolver
		if s, err = req.sessionByID(ctx, id); s != nil {
			n = s
		}
	case kindTrack:
		var t *trackResolver
		if t, err = req.trackByID(ctx, id); t != nil {
			n = t
		}
	case kindAttendee:
		var a *attendeeResolver
		if a, err = req.attendeeByID(ctx, id); a != nil {
			n = a
		}
	}
	if err != nil || n == nil {
		return nil, err
	}
	return &nodeResolver{node: n}, nil
}
