package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SaiNageswarS/travel-boot/db"
	"github.com/SaiNageswarS/travel-boot/memory"
	"github.com/SaiNageswarS/travel-boot/orchestrator"
	"github.com/SaiNageswarS/travel-boot/ratelimit"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeExecutor struct {
	requests []*orchestrator.TravelRequest
	events   []*orchestrator.StreamChunk
	response *orchestrator.TravelResponse
	err      error
}

func (e *fakeExecutor) Execute(ctx context.Context, reporter orchestrator.ProgressReporter, req *orchestrator.TravelRequest) (*orchestrator.TravelResponse, error) {
	e.requests = append(e.requests, req)
	for _, event := range e.events {
		_ = reporter.Send(event)
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.response, nil
}

type fakeConversations struct {
	byKey   map[string]memory.Conversation
	listErr error
}

func newFakeConversations(seed ...memory.Conversation) *fakeConversations {
	f := &fakeConversations{byKey: map[string]memory.Conversation{}}
	for _, c := range seed {
		f.byKey[c.Id()] = c
	}
	return f
}

func (f *fakeConversations) FindOne(ctx context.Context, conversationID, userID string) (*memory.Conversation, error) {
	c, ok := f.byKey[memory.ConversationKey(userID, conversationID)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeConversations) Create(ctx context.Context, c *memory.Conversation) error {
	return f.Save(ctx, c)
}

func (f *fakeConversations) Save(ctx context.Context, c *memory.Conversation) error {
	f.byKey[c.Id()] = *c
	return nil
}

func (f *fakeConversations) ListByUser(ctx context.Context, userID string) ([]memory.Conversation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []memory.Conversation
	for _, c := range f.byKey {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	memory.SortByRecent(out)
	return out, nil
}

type fakeLogins struct {
	byEmail map[string]db.LoginModel
	err     error
}

func newFakeLogins() *fakeLogins {
	return &fakeLogins{byEmail: map[string]db.LoginModel{}}
}

func (f *fakeLogins) FindByEmail(ctx context.Context, email string) (*db.LoginModel, error) {
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeLogins) Exists(ctx context.Context, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeLogins) Create(ctx context.Context, login db.LoginModel) error {
	if f.err != nil {
		return f.err
	}
	f.byEmail[login.EmailId] = login
	return nil
}

var errStore = errors.New("store down")

type testServer struct {
	handler       http.Handler
	executor      *fakeExecutor
	conversations *fakeConversations
	logins        *fakeLogins
	auth          *Authenticator
}

func newTestServer(t *testing.T, limit int) *testServer {
	t.Helper()

	ts := &testServer{
		executor:      &fakeExecutor{},
		conversations: newFakeConversations(),
		logins:        newFakeLogins(),
		auth:          NewAuthenticator(testSecret, time.Hour),
	}
	ts.handler = NewRouter(
		ProvideTravelService(ts.executor, ts.conversations),
		ProvideLoginService(ts.logins, ts.auth),
		ts.auth,
		ratelimit.NewWindowLimiter(limit, time.Hour),
	)
	return ts
}

func (ts *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := ts.auth.Issue(userID)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "198.51.100.4:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}
