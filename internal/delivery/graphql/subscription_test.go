package graphql

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/require"

	"conferenceplanner/internal/domain"
)

func nextResponse(t *testing.T, ch <-chan interface{}, out interface{}) {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "subscription closed")
		resp, isResp := v.(*graphql.Response)
		require.True(t, isResp, "unexpected payload %T", v)
		require.Empty(t, resp.Errors)
		require.NoError(t, json.Unmarshal(resp.Data, out))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscription event")
	}
}

func TestOnSessionScheduled(t *testing.T) {
	env := newTestEnv(t)
	speakerID := env.addSpeaker(t, "Ada")
	sessionID := env.addSession(t, "Engines", speakerID)
	trackID := env.addTrack(t, "Main")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream, err := env.schema.Subscribe(ctx, `subscription { onSessionScheduled { title track { name } speakers { name } } }`, "", nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return env.broker.Subscribers(domain.TopicSessionScheduled) == 1
	}, time.Second, 5*time.Millisecond)

	env.exec(t, `mutation($s: ID!, $t: ID!) {
		scheduleSession(input: {sessionId: $s, trackId: $t, startTime: "2025-05-01T09:00:00Z", endTime: "2025-05-01T09:45:00Z"}) { errors { code } }
	}`, map[string]interface{}{"s": sessionID, "t": trackID}, nil)

	var out struct {
		OnSessionScheduled struct {
			Title string `json:"title"`
			Track struct {
				Name string `json:"name"`
			} `json:"track"`
			Speakers []struct {
				Name string `json:"name"`
			} `json:"speakers"`
		} `json:"onSessionScheduled"`
	}
	nextResponse(t, stream, &out)
	require.Equal(t, "Engines", out.OnSessionScheduled.Title)
	require.Equal(t, "Main", out.OnSessionScheduled.Track.Name)
	require.Len(t, out.OnSessionScheduled.Speakers, 1)

	cancel()
	require.Eventually(t, func() bool {
		return env.broker.Subscribers(domain.TopicSessionScheduled) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestOnAttendeeCheckedIn(t *testing.T) {
	env := newTestEnv(t)
	speakerID := env.addSpeaker(t, "Ada")
	sessionID := env.addSession(t, "Engines", speakerID)
	otherSessionID := env.addSession(t, "Compilers", speakerID)
	grace := env.registerAttendee(t, "grace")
	linus := env.registerAttendee(t, "linus")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream, err := env.schema.Subscribe(ctx, `subscription($id: ID!) {
		onAttendeeCheckedIn(sessionId: $id) { attendeeId sessionId checkInCount attendee { userName } session { title } }
	}`, "", map[string]interface{}{"id": sessionID})
	require.NoError(t, err)
	topic := domain.TopicAttendeeCheckedIn(unmarshalID(kindSession, graphqlID(sessionID)))
	require.Eventually(t, func() bool { return env.broker.Subscribers(topic) == 1 }, time.Second, 5*time.Millisecond)

	checkIn := func(session, attendee string) {
		env.exec(t, `mutation($s: ID!, $a: ID!) { checkInAttendee(input: {sessionId: $s, attendeeId: $a}) { errors { code } } }`,
			map[string]interface{}{"s": session, "a": attendee}, nil)
	}
	checkIn(otherSessionID, grace)
	checkIn(sessionID, grace)
	checkIn(sessionID, linus)

	type event struct {
		OnAttendeeCheckedIn struct {
			AttendeeID   string `json:"attendeeId"`
			SessionID    string `json:"sessionId"`
			CheckInCount int    `json:"checkInCount"`
			Attendee     struct {
				UserName string `json:"userName"`
			} `json:"attendee"`
			Session struct {
				Title string `json:"title"`
			} `json:"session"`
		} `json:"onAttendeeCheckedIn"`
	}

	var first event
	nextResponse(t, stream, &first)
	require.Equal(t, grace, first.OnAttendeeCheckedIn.AttendeeID)
	require.Equal(t, sessionID, first.OnAttendeeCheckedIn.SessionID)
	require.Equal(t, "grace", first.OnAttendeeCheckedIn.Attendee.UserName)
	require.Equal(t, "Engines", first.OnAttendeeCheckedIn.Session.Title)

	var second event
	nextResponse(t, stream, &second)
	require.Equal(t, linus, second.OnAttendeeCheckedIn.AttendeeID)
	require.Equal(t, 2, second.OnAttendeeCheckedIn.CheckInCount)
}
