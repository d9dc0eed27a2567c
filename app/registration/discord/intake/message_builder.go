package intake

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/open-bracket/discord-reg-bot/app/registration/form"
)

const (
	registerButtonPrefix = "register_now|"
	selectAnswerPrefix   = "reg_select|"

	colorBlurple = 0x5865F2
	colorGreen   = 0x57F287
)

// buildRegistrationPrompt is the embed + button posted in the registration
// channel inviting the user to start the DM flow.
func buildRegistrationPrompt(userID string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "📝 Tournament Registration",
				Description: "Click **Register Now** to start the registration process in your DM.",
				Color:       colorBlurple,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						CustomID: registerButtonPrefix + userID,
						Label:    "Register Now",
						Style:    discordgo.PrimaryButton,
					},
				},
			},
		},
	}
}

// buildWelcomeDM opens the DM flow.
func buildWelcomeDM(title, cancelWord string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       fmt.Sprintf("📝 %s — DM Form", title),
				Description: fmt.Sprintf("I will walk you through a few questions. Send `%s` at any time to stop.", cancelWord),
				Color:       colorGreen,
			},
		},
	}
}

// buildQuestionDM renders one text question as a DM embed.
func buildQuestionDM(q form.Question) *discordgo.MessageSend {
	description := fmt.Sprintf("**%s**", q.Prompt)
	if q.Placeholder != "" {
		description += fmt.Sprintf("\n\n*%s*", q.Placeholder)
	}
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{Description: description},
		},
	}
}

// buildSelectDM renders a single-choice question as a select menu.
func buildSelectDM(applicantID string, q form.Question) *discordgo.MessageSend {
	options := make([]discordgo.SelectMenuOption, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, discordgo.SelectMenuOption{
			Label: opt.Label,
			Value: opt.Value,
		})
	}
	one := 1
	return &discordgo.MessageSend{
		Content: q.Prompt,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    fmt.Sprintf("%s%s|%s", selectAnswerPrefix, applicantID, q.ID),
						Placeholder: q.Prompt,
						MinValues:   &one,
						MaxValues:   1,
						Options:     options,
					},
				},
			},
		},
	}
}
