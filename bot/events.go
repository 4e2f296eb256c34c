package bot

import (
	"standup/handler"
	standuphandler "standup/handler/standup"

	"github.com/bwmarrin/discordgo"
)

func registerEventHandlers(s *discordgo.Session, router *handler.Router, h *standuphandler.Handler) {
	s.AddHandler(router.OnInteractionCreate)
	s.AddHandler(h.MessageCreate)
	s.AddHandler(h.MessageUpdate)
	s.AddHandler(h.MessageDelete)

	// Answers arrive as DMs; message content is a privileged intent.
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent
}
