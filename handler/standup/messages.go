package standup

import (
	core "standup/standup"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// MessageCreate feeds new messages to the standup service.
func (h *Handler) MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	h.dispatch(s, m.Message, core.SubtypeNone)
}

// MessageUpdate passes edits through so they are logged and dropped.
func (h *Handler) MessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	h.dispatch(s, m.Message, core.SubtypeEdit)
}

// MessageDelete logs deletions in direct conversations and drops them.
// Delete events carry no author, so they never reach the service; recorded
// answers are not retracted.
func (h *Handler) MessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.Message == nil || m.GuildID != "" {
		return
	}
	h.logger.Debug("Ignoring deleted direct message",
		zap.String("channel", m.ChannelID),
		zap.String("message_id", m.ID))
}

func (h *Handler) dispatch(s *discordgo.Session, m *discordgo.Message, subtype core.Subtype) {
	in, ok := toInbound(botID(s), m, subtype)
	if !ok {
		return
	}
	h.service.HandleMessage(in)
}

func botID(s *discordgo.Session) string {
	if s == nil || s.State == nil || s.State.User == nil {
		return ""
	}
	return s.State.User.ID
}

// toInbound converts a gateway message. Messages without an author, from
// bots, or from the bot itself are dropped. A message with no guild is a DM.
func toInbound(selfID string, m *discordgo.Message, subtype core.Subtype) (core.Inbound, bool) {
	if m == nil || m.Author == nil || m.Author.Bot || m.Author.ID == selfID {
		return core.Inbound{}, false
	}

	if subtype == core.SubtypeNone && m.Type != discordgo.MessageTypeDefault && m.Type != discordgo.MessageTypeReply {
		subtype = core.SubtypeSystem
	}

	return core.Inbound{
		UserID:    m.Author.ID,
		UserName:  displayName(m.Author),
		ChannelID: m.ChannelID,
		Direct:    m.GuildID == "",
		Text:      m.Content,
		Subtype:   subtype,
	}, true
}

func displayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
