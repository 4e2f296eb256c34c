package standup

import (
	"context"
	"errors"
	"sync"
	"testing"

	"standup/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testQuestions = []model.Question{
	{Text: "What did you do yesterday?", Color: "#f08000"},
	{Text: "What will you do today?", Color: "#0050a0"},
	{Text: "Is there anything blocking your progress?", Color: "#1b5e48"},
}

type sent struct {
	To  string
	Msg Message
}

// fakeMessenger records every send. Direct channels are "dm-<user>".
type fakeMessenger struct {
	mu          sync.Mutex
	direct      []sent
	channel     []sent
	failDirect  map[string]bool
	failChannel bool
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{failDirect: make(map[string]bool)}
}

func (f *fakeMessenger) SendDirect(_ context.Context, userID string, msg Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDirect[userID] {
		return "", errors.New("cannot open DM")
	}
	f.direct = append(f.direct, sent{To: userID, Msg: msg})
	return "dm-" + userID, nil
}

func (f *fakeMessenger) SendChannel(_ context.Context, channelID string, msg Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failChannel {
		return "", errors.New("missing access")
	}
	f.channel = append(f.channel, sent{To: channelID, Msg: msg})
	return "msg-1", nil
}

func (f *fakeMessenger) directTo(userID string) []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Message
	for _, s := range f.direct {
		if s.To == userID {
			out = append(out, s.Msg)
		}
	}
	return out
}

func (f *fakeMessenger) channelPosts() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.channel...)
}

type fakeReports struct {
	mu      sync.Mutex
	reports []model.Report
}

func (f *fakeReports) SaveReport(_ context.Context, r model.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, r)
	return nil
}

func newTestService(t *testing.T, m Messenger, participants ...string) *Service {
	t.Helper()
	s := NewService(m, Options{
		Questions:    testQuestions,
		Participants: participants,
		TeamChannel:  "team",
		Logger:       zaptest.NewLogger(t),
	})
	t.Cleanup(s.Flush)
	return s
}

func startCycle(t *testing.T, s *Service) *Session {
	t.Helper()
	sess, err := s.StartCycle(context.Background())
	require.NoError(t, err)
	return sess
}

func dm(user, text string) Inbound {
	return Inbound{UserID: user, UserName: user, ChannelID: "dm-" + user, Direct: true, Text: text}
}

// reply delivers a message and waits for whatever it sends.
func reply(s *Service, in Inbound) {
	if t := s.HandleMessage(in); t != nil {
		<-t.Done()
	}
}
