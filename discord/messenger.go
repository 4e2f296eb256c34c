// Package discord sends standup messages through a discordgo session.
package discord

import (
	"context"
	"fmt"

	"standup/standup"
	"standup/utils"

	"github.com/bwmarrin/discordgo"
)

// Discord limits on embed fields.
const (
	maxTitleLength       = 256
	maxDescriptionLength = 4096
)

// Session is the part of *discordgo.Session the messenger uses.
type Session interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Messenger implements standup.Messenger. Blocks are sent as embeds.
type Messenger struct {
	session Session
}

// NewMessenger wraps a discordgo session.
func NewMessenger(s Session) *Messenger {
	return &Messenger{session: s}
}

var _ standup.Messenger = (*Messenger)(nil)

// SendDirect opens (or reuses) the DM channel with the user and sends msg there.
func (m *Messenger) SendDirect(ctx context.Context, userID string, msg standup.Message) (string, error) {
	ch, err := m.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("open DM channel with %s: %w", userID, err)
	}
	if _, err := m.send(ctx, ch.ID, msg); err != nil {
		return "", err
	}
	return ch.ID, nil
}

// SendChannel posts msg to a channel.
func (m *Messenger) SendChannel(ctx context.Context, channelID string, msg standup.Message) (string, error) {
	return m.send(ctx, channelID, msg)
}

func (m *Messenger) send(ctx context.Context, channelID string, msg standup.Message) (string, error) {
	data, err := BuildMessage(msg)
	if err != nil {
		return "", err
	}
	sent, err := m.session.ChannelMessageSendComplex(channelID, data, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send message to channel %s: %w", channelID, err)
	}
	return sent.ID, nil
}

// BuildMessage converts a standup message into a discordgo message with one
// embed per block. Mentions in the content are not allowed to ping anyone.
func BuildMessage(msg standup.Message) (*discordgo.MessageSend, error) {
	data := &discordgo.MessageSend{
		Content:         msg.Content,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	for _, b := range msg.Blocks {
		color, err := utils.ParseColor(b.Color)
		if err != nil {
			return nil, err
		}
		data.Embeds = append(data.Embeds, &discordgo.MessageEmbed{
			Title:       utils.Truncate(b.Title, maxTitleLength),
			Description: utils.Truncate(b.Text, maxDescriptionLength),
			Color:       color,
		})
	}
	return data, nil
}
