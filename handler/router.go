package handler

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// HandlerFunc handles one interaction.
type HandlerFunc func(s *discordgo.Session, i *discordgo.InteractionCreate)

// Router dispatches slash commands to handlers by command name.
type Router struct {
	commands map[string]HandlerFunc
	logger   *zap.Logger
}

// NewRouter creates an empty router.
func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		commands: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// AddCommandHandler registers a handler for a slash command.
func (r *Router) AddCommandHandler(name string, h HandlerFunc) {
	r.commands[name] = h
}

// Lookup finds the handler for an interaction. Only application commands are
// routed.
func (r *Router) Lookup(i *discordgo.InteractionCreate) (HandlerFunc, bool) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil, false
	}
	h, ok := r.commands[i.ApplicationCommandData().Name]
	return h, ok
}

// OnInteractionCreate is the main interaction router. Register it on the
// session with AddHandler.
func (r *Router) OnInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h, ok := r.Lookup(i)
	if !ok {
		r.logger.Debug("No handler for interaction", zap.Stringer("type", i.Type))
		return
	}
	h(s, i)
}
