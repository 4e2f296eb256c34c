package def

import "github.com/bwmarrin/discordgo"

// Subcommand names of /standup.
const (
	StandupStart   = "start"
	StandupStatus  = "status"
	StandupHistory = "history"
)

var minHistory = 1.0

var StandupCommand = &discordgo.ApplicationCommand{
	Name:        "standup",
	Description: "Daily standup",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        StandupStart,
			Description: "Start a standup now (admins only)",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        StandupStatus,
			Description: "Show who has answered in the current standup",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        StandupHistory,
			Description: "Show a member's recent standup reports",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to look up (defaults to you)",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "Number of reports to show",
					MinValue:    &minHistory,
					MaxValue:    10,
					Required:    false,
				},
			},
		},
	},
}
