package standup

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"standup/model"

	"go.uber.org/zap"
)

var (
	// ErrNoQuestions is returned by StartCycle when no questions are configured.
	ErrNoQuestions = errors.New("no standup questions configured")
	// ErrCycleInProgress is returned when StartCycle is already running.
	ErrCycleInProgress = errors.New("a standup cycle is already starting")
)

// ReportStore archives published summaries.
type ReportStore interface {
	SaveReport(ctx context.Context, r model.Report) error
}

// Options configures a Service.
type Options struct {
	Questions    []model.Question
	Participants []string
	TeamChannel  string
	// SendTimeout bounds each outbound send. Zero means no bound.
	SendTimeout time.Duration
	// MaxParallelSends caps concurrent sends. Zero means no cap.
	MaxParallelSends int
	// Reports is optional.
	Reports ReportStore
	Logger  *zap.Logger
	// Now is used for timestamps; defaults to time.Now.
	Now func() time.Time
}

// Service owns the current cycle's Session and runs both entry points: the
// scheduled StartCycle and HandleMessage for every inbound message.
type Service struct {
	messenger    Messenger
	questions    []model.Question
	participants []string
	teamChannel  string
	reports      ReportStore
	logger       *zap.Logger
	outbox       *Outbox
	now          func() time.Time

	starting sync.Mutex

	mu      sync.RWMutex
	session *Session
}

// NewService creates a Service. No cycle is active until StartCycle runs.
func NewService(m Messenger, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		messenger:    m,
		questions:    append([]model.Question(nil), opts.Questions...),
		participants: append([]string(nil), opts.Participants...),
		teamChannel:  opts.TeamChannel,
		reports:      opts.Reports,
		logger:       logger,
		outbox:       NewOutbox(opts.MaxParallelSends, opts.SendTimeout),
		now:          now,
	}
}

// Session returns the current cycle's session, or nil before the first cycle.
func (s *Service) Session() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Progress reports the current cycle's per-participant progress.
func (s *Service) Progress() []Progress {
	sess := s.Session()
	if sess == nil {
		return nil
	}
	return sess.Progress()
}

// IsParticipant reports whether userID is in the configured participant list.
func (s *Service) IsParticipant(userID string) bool {
	return slices.Contains(s.participants, userID)
}

// TeamChannel returns the channel summaries are posted to.
func (s *Service) TeamChannel() string {
	return s.teamChannel
}

// Flush waits for every outstanding send to finish.
func (s *Service) Flush() {
	s.outbox.Wait()
}

// Close stops accepting sends and waits for outstanding ones. Messages
// handled afterwards are still recorded but nothing more is sent.
func (s *Service) Close() {
	s.outbox.Close()
}

func (s *Service) swapSession(next *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = next
}
