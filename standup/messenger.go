package standup

import "context"

// Block is one attachment-style section of a message.
type Block struct {
	Color string
	Title string
	Text  string
}

// Message is an outbound chat message.
type Message struct {
	Content string
	Blocks  []Block
}

// Messenger is the chat client the bot talks through.
type Messenger interface {
	// SendDirect delivers msg to the user privately and returns the id of the
	// private channel used.
	SendDirect(ctx context.Context, userID string, msg Message) (channelID string, err error)
	// SendChannel posts msg to a channel and returns the id of the new message.
	SendChannel(ctx context.Context, channelID string, msg Message) (messageID string, err error)
}

// Subtype flags inbound messages the bot does not treat as answers.
type Subtype string

const (
	SubtypeNone   Subtype = ""
	SubtypeEdit   Subtype = "edit"
	SubtypeDelete Subtype = "delete"
	SubtypeSystem Subtype = "system"
)

// Inbound is a message received from the chat platform.
type Inbound struct {
	UserID    string
	UserName  string
	ChannelID string
	Direct    bool
	Text      string
	Subtype   Subtype
}
