package standup

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"standup/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestHandleMessage_FullSequence(t *testing.T) {
	m := newFakeMessenger()
	s := newTestService(t, m, "alice")
	sess := startCycle(t, s)

	reply(s, dm("alice", "did X"))
	require.Len(t, sess.Answers("dm-alice"), 1)
	msgs := m.directTo("alice")
	require.Len(t, msgs, 2)
	assert.Equal(t, testQuestions[1].Text, msgs[1].Blocks[0].Text)

	reply(s, dm("alice", "will do Y"))
	require.Len(t, sess.Answers("dm-alice"), 2)
	msgs = m.directTo("alice")
	require.Len(t, msgs, 3)
	assert.Equal(t, testQuestions[2].Text, msgs[2].Blocks[0].Text)
	assert.Equal(t, testQuestions[2].Color, msgs[2].Blocks[0].Color)
	assert.Empty(t, m.channelPosts())

	reply(s, dm("alice", "nothing blocking"))
	require.Len(t, sess.Answers("dm-alice"), 3)

	posts := m.channelPosts()
	require.Len(t, posts, 1)
	assert.Equal(t, "team", posts[0].To)
	assert.Equal(t, "**alice's** standup status is", posts[0].Msg.Content)
	assert.Equal(t, []Block{
		{Color: "#f08000", Title: "What did you do yesterday?", Text: "did X"},
		{Color: "#0050a0", Title: "What will you do today?", Text: "will do Y"},
		{Color: "#1b5e48", Title: "Is there anything blocking your progress?", Text: "nothing blocking"},
	}, posts[0].Msg.Blocks)

	msgs = m.directTo("alice")
	require.Len(t, msgs, 4)
	assert.Contains(t, msgs[3].Content, "posted to <#team>")
}

func TestHandleMessage_AfterCompletion(t *testing.T) {
	m := newFakeMessenger()
	s := newTestService(t, m, "alice")
	sess := startCycle(t, s)

	for _, text := range []string{"a", "b", "c"} {
		reply(s, dm("alice", text))
	}
	before := len(m.directTo("alice"))

	reply(s, dm("alice", "one more thing"))

	assert.Len(t, sess.Answers("dm-alice"), 3)
	assert.Len(t, m.channelPosts(), 1)
	msgs := m.directTo("alice")
	require.Len(t, msgs, before+1)
	assert.Contains(t, msgs[len(msgs)-1].Content, "already answered")
}

func TestHandleMessage_PublishFailureStillAcknowledges(t *testing.T) {
	m := newFakeMessenger()
	m.failChannel = true
	reports := &fakeReports{}
	s := NewService(m, Options{
		Questions:    testQuestions[:1],
		Participants: []string{"alice"},
		TeamChannel:  "team",
		Reports:      reports,
	})
	startCycle(t, s)

	task := s.HandleMessage(dm("alice", "did X"))
	require.NotNil(t, task)
	<-task.Done()

	assert.Empty(t, m.channelPosts())
	msgs := m.directTo("alice")
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "posted to")
	assert.Empty(t, reports.reports)
}

func TestHandleMessage_ArchivesReport(t *testing.T) {
	m := newFakeMessenger()
	reports := &fakeReports{}
	s := NewService(m, Options{
		Questions:    testQuestions[:2],
		Participants: []string{"alice"},
		TeamChannel:  "team",
		Reports:      reports,
	})
	sess := startCycle(t, s)

	reply(s, dm("alice", "a"))
	reply(s, dm("alice", "b"))

	require.Len(t, reports.reports, 1)
	r := reports.reports[0]
	assert.Equal(t, sess.ID, r.CycleID)
	assert.Equal(t, "alice", r.ParticipantID)
	assert.Equal(t, "alice", r.ParticipantName)
	assert.Equal(t, "team", r.ChannelID)
	assert.Equal(t, "msg-1", r.MessageID)
	assert.Equal(t, []model.Answer{
		{Question: testQuestions[0].Text, Color: testQuestions[0].Color, Text: "a"},
		{Question: testQuestions[1].Text, Color: testQuestions[1].Color, Text: "b"},
	}, r.Answers)
	assert.False(t, r.PostedAt.IsZero())
}

func TestHandleMessage_Ignored(t *testing.T) {
	m := newFakeMessenger()
	s := newTestService(t, m, "alice")

	// before any cycle
	assert.Nil(t, s.HandleMessage(dm("alice", "hello")))

	sess := startCycle(t, s)

	channelMsg := dm("alice", "in a channel")
	channelMsg.Direct = false
	assert.Nil(t, s.HandleMessage(channelMsg))

	for _, st := range []Subtype{SubtypeEdit, SubtypeDelete, SubtypeSystem} {
		in := dm("alice", "edited")
		in.Subtype = st
		assert.Nil(t, s.HandleMessage(in), st)
	}

	assert.Nil(t, s.HandleMessage(dm("mallory", "let me in")))

	assert.Empty(t, sess.Answers("dm-alice"))
	assert.Len(t, m.directTo("alice"), 1)
	assert.Empty(t, m.directTo("mallory"))
}

// Replies are matched by count, not content: two quick messages fill two
// slots even though the second question had not been seen yet.
func TestHandleMessage_PositionalCorrelation(t *testing.T) {
	m := newFakeMessenger()
	s := newTestService(t, m, "alice")
	sess := startCycle(t, s)

	t1 := s.HandleMessage(dm("alice", "did X"))
	t2 := s.HandleMessage(dm("alice", "oh and also Z"))
	<-t1.Done()
	<-t2.Done()

	answers := sess.Answers("dm-alice")
	require.Len(t, answers, 2)
	assert.Equal(t, testQuestions[1].Text, answers[1].Question)
	assert.Equal(t, "oh and also Z", answers[1].Text)
}

func TestService_Progress(t *testing.T) {
	m := newFakeMessenger()
	s := newTestService(t, m, "alice", "bob")
	assert.Nil(t, s.Progress())

	startCycle(t, s)
	reply(s, Inbound{UserID: "bob", UserName: "Bob", ChannelID: "dm-bob", Direct: true, Text: "x"})

	assert.Equal(t, []Progress{
		{ParticipantID: "alice", Answered: 0, Total: 3},
		{ParticipantID: "bob", Name: "Bob", Answered: 1, Total: 3},
	}, s.Progress())
}

func TestHandleMessage_DoesNotBlockOnFullOutbox(t *testing.T) {
	m := &gatedMessenger{fakeMessenger: newFakeMessenger()}
	s := NewService(m, Options{
		Questions:        testQuestions,
		Participants:     []string{"alice", "bob"},
		TeamChannel:      "team",
		MaxParallelSends: 1,
		Logger:           zaptest.NewLogger(t),
	})
	t.Cleanup(s.Flush)
	startCycle(t, s)

	gate := m.arm()
	held := s.HandleMessage(dm("alice", "did X"))
	require.NotNil(t, held)

	returned := make(chan *Task, 1)
	go func() { returned <- s.HandleMessage(dm("bob", "did Y")) }()

	var queued *Task
	select {
	case queued = <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("HandleMessage waited on a full outbox")
	}
	require.NotNil(t, queued)
	assert.Len(t, s.Session().Answers("dm-bob"), 1)

	close(gate)
	<-held.Done()
	<-queued.Done()
	assert.Len(t, m.directTo("bob"), 2)
}

func TestHandleMessage_ConcurrentReplies(t *testing.T) {
	m := newFakeMessenger()
	s := newTestService(t, m, "alice")
	sess := startCycle(t, s)

	const replies = 20
	tasks := make(chan *Task, replies)
	var wg sync.WaitGroup
	for i := 0; i < replies; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tasks <- s.HandleMessage(dm("alice", fmt.Sprintf("reply %d", i)))
		}(i)
	}
	wg.Wait()
	close(tasks)
	for task := range tasks {
		require.NotNil(t, task)
		<-task.Done()
	}

	assert.Len(t, sess.Answers("dm-alice"), len(testQuestions))
	posts := m.channelPosts()
	require.Len(t, posts, 1)
	assert.Len(t, posts[0].Msg.Blocks, len(testQuestions))

	var acks, reminders int
	for _, msg := range m.directTo("alice") {
		switch {
		case strings.Contains(msg.Content, "has been posted"):
			acks++
		case strings.Contains(msg.Content, "already answered"):
			reminders++
		}
	}
	assert.Equal(t, 1, acks)
	assert.Equal(t, replies-len(testQuestions), reminders)
}

func TestService_Close(t *testing.T) {
	m := newFakeMessenger()
	s := newTestService(t, m, "alice")
	sess := startCycle(t, s)

	s.Close()
	task := s.HandleMessage(dm("alice", "did X"))
	require.NotNil(t, task)
	r, err := task.Wait(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, r.Err, ErrOutboxClosed)

	assert.Len(t, sess.Answers("dm-alice"), 1)
	assert.Len(t, m.directTo("alice"), 1)
}

// gatedMessenger holds every send made after arm until the returned channel
// is closed.
type gatedMessenger struct {
	*fakeMessenger
	gateMu sync.Mutex
	gate   chan struct{}
}

func (g *gatedMessenger) arm() chan struct{} {
	g.gateMu.Lock()
	defer g.gateMu.Unlock()
	g.gate = make(chan struct{})
	return g.gate
}

func (g *gatedMessenger) wait() {
	g.gateMu.Lock()
	gate := g.gate
	g.gateMu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (g *gatedMessenger) SendDirect(ctx context.Context, userID string, msg Message) (string, error) {
	g.wait()
	return g.fakeMessenger.SendDirect(ctx, userID, msg)
}

func (g *gatedMessenger) SendChannel(ctx context.Context, channelID string, msg Message) (string, error) {
	g.wait()
	return g.fakeMessenger.SendChannel(ctx, channelID, msg)
}
