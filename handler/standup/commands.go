package standup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"standup/command/def"
	"standup/model"
	core "standup/standup"
	"standup/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

var standupCommandName = def.StandupCommand.Name

// StandupCommandHandler handles /standup and its subcommands.
func (h *Handler) StandupCommandHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}
	sub := options[0]

	// Respond right away; the work below may take longer than Discord allows.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Error("Error sending deferred response", zap.Error(err))
		return
	}

	go func() {
		var content string
		var embeds []*discordgo.MessageEmbed

		switch sub.Name {
		case def.StandupStart:
			content = h.start(i)
		case def.StandupStatus:
			content = statusText(h.service.Progress(), h.service.Session() != nil)
		case def.StandupHistory:
			content, embeds = h.history(s, i, sub.Options)
		default:
			content = fmt.Sprintf("Unknown subcommand `%s`", sub.Name)
		}

		edit := &discordgo.WebhookEdit{Content: utils.StringPtr(content)}
		if len(embeds) > 0 {
			edit.Embeds = &embeds
		}
		if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
			h.logger.Error("Error editing interaction response", zap.Error(err))
		}
	}()
}

func (h *Handler) start(i *discordgo.InteractionCreate) string {
	user, roles := interactionUser(i)
	if user == nil || !utils.CheckAuth(h.auth, user.ID, roles) {
		return "❌ You are not allowed to start a standup."
	}

	h.logger.Info("Standup started by hand", zap.String("user", user.ID))
	sess, err := h.service.StartCycle(context.Background())
	switch {
	case errors.Is(err, core.ErrCycleInProgress):
		return "ℹ️ A standup is already starting."
	case errors.Is(err, core.ErrNoQuestions):
		return "❌ No standup questions are configured."
	case err != nil:
		return fmt.Sprintf("❌ Failed to start standup: %v", err)
	}
	return fmt.Sprintf("✅ Standup started, first question delivered to %d participant(s).", len(sess.Progress()))
}

func (h *Handler) history(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) (string, []*discordgo.MessageEmbed) {
	if h.reports == nil {
		return "ℹ️ The report archive is disabled.", nil
	}

	target, _ := interactionUser(i)
	limit := 5
	for _, opt := range options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "limit":
			limit = int(opt.IntValue())
		}
	}
	if target == nil {
		return "❌ Could not tell which member to look up.", nil
	}

	reports, err := h.reports.ListReports(context.Background(), target.ID, limit)
	if err != nil {
		h.logger.Error("Failed to list reports", zap.String("participant", target.ID), zap.Error(err))
		return fmt.Sprintf("❌ Failed to load reports: %v", err), nil
	}
	if len(reports) == 0 {
		return fmt.Sprintf("ℹ️ No standup reports found for <@%s>.", target.ID), nil
	}
	return "", []*discordgo.MessageEmbed{historyEmbed(target.ID, reports)}
}

// interactionUser returns the invoking user and, inside a guild, their roles.
func interactionUser(i *discordgo.InteractionCreate) (*discordgo.User, []string) {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User, i.Member.Roles
	}
	return i.User, nil
}

func statusText(progress []core.Progress, active bool) string {
	if !active {
		return "ℹ️ No standup has run yet."
	}
	if len(progress) == 0 {
		return "ℹ️ Nobody received the first question in the current standup."
	}

	var b strings.Builder
	b.WriteString("**Current standup**\n")
	for _, p := range progress {
		mark := "⏳"
		if p.Answered == p.Total {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s <@%s> %d/%d\n", mark, p.ParticipantID, p.Answered, p.Total)
	}
	return b.String()
}

const maxFieldLength = 1024

func historyEmbed(participantID string, reports []model.Report) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Standup history",
		Description: fmt.Sprintf("Last %d report(s) from <@%s>", len(reports), participantID),
		Color:       0x5865F2, // Discord Blurple
	}
	for _, r := range reports {
		var b strings.Builder
		for _, a := range r.Answers {
			fmt.Fprintf(&b, "**%s**\n> %s\n", a.Question, a.Text)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  r.PostedAt.Format("2006-01-02 15:04"),
			Value: utils.Truncate(b.String(), maxFieldLength),
		})
	}
	return embed
}
