package standup

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartCycle begins a new standup. Any previous cycle's state is discarded
// before anything is sent, then the first question goes out to every
// participant. StartCycle returns once every delivery has finished or ctx is
// done; participants whose delivery failed are left out of the cycle.
func (s *Service) StartCycle(ctx context.Context) (*Session, error) {
	if !s.starting.TryLock() {
		return nil, ErrCycleInProgress
	}
	defer s.starting.Unlock()

	sess := newSession(uuid.NewString(), s.questions, s.now())
	s.swapSession(sess)

	logger := s.logger.With(zap.String("cycle_id", sess.ID))
	if len(s.questions) == 0 {
		logger.Warn("No standup questions configured, skipping cycle")
		return sess, ErrNoQuestions
	}

	logger.Info("Starting standup", zap.Int("participants", len(s.participants)), zap.Int("questions", len(s.questions)))

	first := questionMessage(s.questions[0])
	tasks := make([]*Task, 0, len(s.participants))
	for _, p := range s.participants {
		p := p // per-iteration copy; go directive lowered to 1.21 for the local toolchain
		plog := logger.With(zap.String("participant", p))
		plog.Info("Sending question", zap.Int("question_index", 0), zap.String("question", s.questions[0].Text))

		tasks = append(tasks, s.outbox.Go(
			func(ctx context.Context) Result {
				ch, err := s.messenger.SendDirect(ctx, p, first)
				return Result{ChannelID: ch, Err: err}
			},
			func(r Result) {
				if r.Err != nil {
					plog.Error("Failed to send first question", zap.Error(r.Err))
					return
				}
				sess.Begin(p, r.ChannelID)
			},
		))
	}

	for _, t := range tasks {
		if _, err := t.Wait(ctx); err != nil {
			logger.Warn("Stopped waiting for first questions", zap.Error(err))
			return sess, err
		}
	}
	return sess, nil
}
