package graphql

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/stretchr/testify/require"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/events"
	"conferenceplanner/internal/platform/database"
	"conferenceplanner/internal/unitofwork"
)

// batchRecorder keeps the size of every batch per loader.
type batchRecorder struct {
	mu      sync.Mutex
	batches map[string][]int
}

func (b *batchRecorder) BatchDispatched(loader string, size int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.batches == nil {
		b.batches = make(map[string][]int)
	}
	b.batches[loader] = append(b.batches[loader], size)
}

func (b *batchRecorder) CacheHit(string) {}

// keys returns how many keys loader fetched in total.
func (b *batchRecorder) keys(loader string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, size := range b.batches[loader] {
		n += size
	}
	return n
}

type mailbox struct {
	mu   sync.Mutex
	sent []*domain.WelcomeMessageEmailData
}

func (m *mailbox) SendWelcomeMessage(_ context.Context, data *domain.WelcomeMessageEmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, data)
	return nil
}

type testEnv struct {
	db       *sql.DB
	broker   *events.MemoryBroker
	batches  *batchRecorder
	mail     *mailbox
	resolver *Resolver
	schema   *graphql.Schema
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = database.Migrate(ctx, db, database.DriverSQLite)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		db:      db,
		broker:  events.NewMemoryBroker(logger),
		batches: &batchRecorder{},
		mail:    &mailbox{},
	}
	t.Cleanup(func() { _ = env.broker.Close() })

	env.resolver = NewResolver(Config{
		DB:     db,
		Broker: env.broker,
		Email:  env.mail,
		Loaders: LoaderConfig{
			Wait:     10 * time.Millisecond,
			Observer: env.batches,
		},
		Logger: logger,
	})
	env.schema, err = NewSchema(env.resolver, 0)
	require.NoError(t, err)
	return env
}

// exec runs one operation the way the HTTP stack does: inside its own unit of
// work, closed afterwards. The response data is decoded into out.
func (e *testEnv) exec(t *testing.T, query string, vars map[string]interface{}, out interface{}) {
	t.Helper()
	scope := unitofwork.New(e.db)
	ctx, release := e.resolver.WithLoaders(unitofwork.WithScope(context.Background(), scope))
	resp := e.schema.Exec(ctx, query, "", vars)
	release()
	require.NoError(t, scope.Close())
	require.Empty(t, resp.Errors)
	if out != nil {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
}

func kindOf(id string) string {
	return relay.UnmarshalKind(graphql.ID(id))
}

func marshalIDString(kind string, id int) string {
	return string(marshalID(kind, id))
}

func graphqlID(id string) graphql.ID {
	return graphql.ID(id)
}

func receiveID(t *testing.T, ch <-chan int) int {
	t.Helper()
	select {
	case id, ok := <-ch:
		require.True(t, ok, "channel closed")
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return 0
	}
}

type userError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func codesOf(errs []userError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func (e *testEnv) addSpeaker(t *testing.T, name string) string {
	t.Helper()
	var out struct {
		AddSpeaker struct {
			Speaker struct{ ID string } `json:"speaker"`
		} `json:"addSpeaker"`
	}
	e.exec(t, `mutation($name: String!) { addSpeaker(input: {name: $name}) { speaker { id } } }`,
		map[string]interface{}{"name": name}, &out)
	return out.AddSpeaker.Speaker.ID
}

func (e *testEnv) addSession(t *testing.T, title string, speakerIDs ...string) string {
	t.Helper()
	ids := make([]interface{}, len(speakerIDs))
	for i, id := range speakerIDs {
		ids[i] = id
	}
	var out struct {
		AddSession struct {
			Session struct{ ID string } `json:"session"`
		} `json:"addSession"`
	}
	e.exec(t, `mutation($title: String!, $ids: [ID!]!) { addSession(input: {title: $title, speakerIds: $ids}) { session { id } } }`,
		map[string]interface{}{"title": title, "ids": ids}, &out)
	return out.AddSession.Session.ID
}

func (e *testEnv) addTrack(t *testing.T, name string) string {
	t.Helper()
	var out struct {
		AddTrack struct {
			Track struct{ ID string } `json:"track"`
		} `json:"addTrack"`
	}
	e.exec(t, `mutation($name: String!) { addTrack(input: {name: $name}) { track { id } } }`,
		map[string]interface{}{"name": name}, &out)
	return out.AddTrack.Track.ID
}

func (e *testEnv) registerAttendee(t *testing.T, userName string) string {
	t.Helper()
	var out struct {
		RegisterAttendee struct {
			Attendee struct{ ID string } `json:"attendee"`
		} `json:"registerAttendee"`
	}
	e.exec(t, `mutation($userName: String!) {
		registerAttendee(input: {firstName: "Ada", lastName: "Lovelace", userName: $userName}) { attendee { id } }
	}`, map[string]interface{}{"userName": userName}, &out)
	return out.RegisterAttendee.Attendee.ID
}
