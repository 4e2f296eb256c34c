package standup

import (
	"sort"
	"sync"
	"time"

	"standup/model"
)

// StepKind says what the bot should do after a reply has been recorded.
type StepKind int

const (
	// StepIgnored means the reply had no conversation to go to.
	StepIgnored StepKind = iota
	// StepNextQuestion means the reply was recorded and another question follows.
	StepNextQuestion
	// StepCompleted means the reply was the last answer.
	StepCompleted
	// StepAlreadyComplete means every question was answered before this reply.
	StepAlreadyComplete
)

func (k StepKind) String() string {
	switch k {
	case StepNextQuestion:
		return "next_question"
	case StepCompleted:
		return "completed"
	case StepAlreadyComplete:
		return "already_complete"
	default:
		return "ignored"
	}
}

// Step is the result of Session.Record.
type Step struct {
	Kind StepKind
	// Index is the question just answered (StepNextQuestion, StepCompleted).
	Index int
	// Next is the question to ask next (StepNextQuestion only).
	Next model.Question
	// Answers is a copy of the full answer set (StepCompleted only).
	Answers []model.Answer
}

// Progress is a participant's position in the current cycle.
type Progress struct {
	ParticipantID string
	Name          string
	Answered      int
	Total         int
}

// Session holds the state of one cycle: which private channel each
// participant is being asked on and what they have answered so far.
type Session struct {
	ID        string
	StartedAt time.Time

	mu            sync.Mutex
	questions     []model.Question
	conversations map[string]string         // participant -> private channel
	answers       map[string][]model.Answer // private channel -> answers
	names         map[string]string         // participant -> display name
}

func newSession(id string, questions []model.Question, now time.Time) *Session {
	return &Session{
		ID:            id,
		StartedAt:     now,
		questions:     append([]model.Question(nil), questions...),
		conversations: make(map[string]string),
		answers:       make(map[string][]model.Answer),
		names:         make(map[string]string),
	}
}

// Questions returns the number of questions in the cycle.
func (s *Session) Questions() int {
	return len(s.questions)
}

// Begin records that the first question reached the participant on channelID
// and starts an empty answer set for that channel.
func (s *Session) Begin(participantID, channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations[participantID] = channelID
	s.answers[channelID] = []model.Answer{}
}

// Conversation returns the private channel recorded for the participant.
func (s *Session) Conversation(participantID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.conversations[participantID]
	return ch, ok
}

// Answers returns a copy of the answers recorded on channelID.
func (s *Session) Answers(channelID string) []model.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.Answer(nil), s.answers[channelID]...)
}

// Name returns the display name last seen for the participant, or "".
func (s *Session) Name(participantID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.names[participantID]
}

// Record appends text as the participant's answer to the question at index
// len(answers). The append and the completeness check happen under one lock.
func (s *Session) Record(participantID, name, channelID, text string) Step {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name != "" {
		s.names[participantID] = name
	}

	ch, ok := s.conversations[participantID]
	if !ok || ch != channelID {
		return Step{Kind: StepIgnored}
	}
	answers, ok := s.answers[ch]
	if !ok {
		return Step{Kind: StepIgnored}
	}
	if len(answers) >= len(s.questions) {
		return Step{Kind: StepAlreadyComplete}
	}

	idx := len(answers)
	q := s.questions[idx]
	answers = append(answers, model.Answer{Question: q.Text, Color: q.Color, Text: text})
	s.answers[ch] = answers

	if len(answers) == len(s.questions) {
		return Step{
			Kind:    StepCompleted,
			Index:   idx,
			Answers: append([]model.Answer(nil), answers...),
		}
	}
	return Step{Kind: StepNextQuestion, Index: idx, Next: s.questions[len(answers)]}
}

// Progress lists every participant with a conversation, sorted by id.
func (s *Session) Progress() []Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Progress, 0, len(s.conversations))
	for p, ch := range s.conversations {
		out = append(out, Progress{
			ParticipantID: p,
			Name:          s.names[p],
			Answered:      len(s.answers[ch]),
			Total:         len(s.questions),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParticipantID < out[j].ParticipantID })
	return out
}
