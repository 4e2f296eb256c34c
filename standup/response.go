package standup

import (
	"context"

	"go.uber.org/zap"
)

// HandleMessage processes one inbound message. Replies in a participant's
// private conversation are recorded against the next outstanding question;
// the follow-up send (next question, summary or reminder) runs in the
// background and its task is returned. A nil task means nothing was sent.
func (s *Service) HandleMessage(in Inbound) *Task {
	logger := s.logger.With(zap.String("participant", in.UserID), zap.String("channel", in.ChannelID))

	if !in.Direct {
		return nil
	}
	if in.Subtype != SubtypeNone {
		logger.Debug("Ignoring unsupported message subtype", zap.String("subtype", string(in.Subtype)))
		return nil
	}
	if !s.IsParticipant(in.UserID) {
		logger.Info("Ignoring message from user who is not a standup participant")
		return nil
	}

	sess := s.Session()
	if sess == nil {
		return nil
	}
	logger = logger.With(zap.String("cycle_id", sess.ID))

	step := sess.Record(in.UserID, in.UserName, in.ChannelID, in.Text)
	switch step.Kind {
	case StepAlreadyComplete:
		logger.Info("Participant already answered all standup questions")
		return s.sendDirect(logger, in.UserID, alreadyPostedMessage(s.teamChannel))

	case StepNextQuestion:
		logger.Info("Received answer", zap.Int("question_index", step.Index))
		next := step.Index + 1
		logger.Info("Sending question", zap.Int("question_index", next), zap.String("question", step.Next.Text))
		return s.sendDirect(logger, in.UserID, questionMessage(step.Next))

	case StepCompleted:
		logger.Info("Received answer", zap.Int("question_index", step.Index))
		logger.Info("Participant completed standup, posting answers to team")
		return s.publishSummary(logger, sess, in.UserID, step.Answers)

	default:
		logger.Debug("No open standup conversation for message")
		return nil
	}
}

func (s *Service) sendDirect(logger *zap.Logger, userID string, msg Message) *Task {
	return s.outbox.Go(
		func(ctx context.Context) Result {
			ch, err := s.messenger.SendDirect(ctx, userID, msg)
			return Result{ChannelID: ch, Err: err}
		},
		func(r Result) {
			if r.Err != nil {
				logger.Error("Failed to send direct message", zap.Error(r.Err))
			}
		},
	)
}
