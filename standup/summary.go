package standup

import (
	"context"
	"fmt"

	"standup/model"

	"go.uber.org/zap"
)

func questionMessage(q model.Question) Message {
	return Message{Blocks: []Block{{Color: q.Color, Text: q.Text}}}
}

func summaryMessage(name string, answers []model.Answer) Message {
	blocks := make([]Block, 0, len(answers))
	for _, a := range answers {
		blocks = append(blocks, Block{Color: a.Color, Title: a.Question, Text: a.Text})
	}
	return Message{
		Content: fmt.Sprintf("**%s's** standup status is", name),
		Blocks:  blocks,
	}
}

func postedMessage(teamChannel string) Message {
	return Message{Content: fmt.Sprintf("Thanks! Your standup status has been posted to <#%s>.", teamChannel)}
}

func alreadyPostedMessage(teamChannel string) Message {
	return Message{Content: fmt.Sprintf("You have already answered every standup question. Your status is in <#%s>.", teamChannel)}
}

// displayName prefers the name seen on the participant's messages and falls
// back to a mention.
func displayName(sess *Session, participantID string) string {
	if name := sess.Name(participantID); name != "" {
		return name
	}
	return fmt.Sprintf("<@%s>", participantID)
}

// publishSummary posts the participant's answers to the team channel, then
// acknowledges the participant. The acknowledgment is sent even if the post
// failed.
func (s *Service) publishSummary(logger *zap.Logger, sess *Session, participantID string, answers []model.Answer) *Task {
	name := displayName(sess, participantID)
	summary := summaryMessage(name, answers)

	return s.outbox.Go(
		func(ctx context.Context) Result {
			msgID, err := s.messenger.SendChannel(ctx, s.teamChannel, summary)
			if err != nil {
				logger.Error("Failed to post standup status", zap.String("team_channel", s.teamChannel), zap.Error(err))
			} else if s.reports != nil {
				report := model.Report{
					CycleID:         sess.ID,
					ParticipantID:   participantID,
					ParticipantName: name,
					ChannelID:       s.teamChannel,
					MessageID:       msgID,
					Answers:         answers,
					PostedAt:        s.now(),
				}
				if err := s.reports.SaveReport(ctx, report); err != nil {
					logger.Error("Failed to archive standup report", zap.Error(err))
				}
			}

			ch, ackErr := s.messenger.SendDirect(ctx, participantID, postedMessage(s.teamChannel))
			if ackErr != nil {
				logger.Error("Failed to acknowledge participant", zap.Error(ackErr))
			}
			return Result{ChannelID: ch, MessageID: msgID, Err: err}
		},
		nil,
	)
}
