// Package standup runs the daily standup survey.
//
// A cycle starts on schedule: the current Session is replaced by a fresh one
// and the first question is sent to every participant over direct message.
// Each reply in that direct conversation is recorded against the question at
// index len(answers); once every question has an answer the full set is
// posted to the team channel.
//
// Replies are matched to questions purely by position. If the chat platform
// delivers a participant's replies out of order relative to the bot's
// questions, answers can be recorded against the wrong question. The bot asks
// one question at a time, so in practice this only happens when a participant
// sends several messages before the next question arrives.
package standup
