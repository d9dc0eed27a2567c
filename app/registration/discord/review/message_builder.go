package review

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/open-bracket/discord-reg-bot/app/registration/form"
)

const (
	approvePrefix = "approve|"
	rejectPrefix  = "reject|"

	colorAqua = 0x1ABC9C

	answerFieldLimit = 1000
)

// buildReviewMessage renders a submitted registration as the staff review
// embed with Approve/Reject buttons. Answer fields follow form order.
func buildReviewMessage(f *form.Form, applicantID string, answers form.AnswerSet, submittedAt time.Time) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title:       "📝 New Registration Request",
		Description: fmt.Sprintf("Registration request from <@%s>", applicantID),
		Color:       colorAqua,
		Timestamp:   submittedAt.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", applicantID), Inline: true},
			{Name: "User ID", Value: applicantID, Inline: true},
			{Name: "Status", Value: "Pending", Inline: true},
		},
	}
	for _, q := range f.Questions {
		value := answers[q.ID]
		if value == "" {
			value = "—"
		}
		value = truncateAnswer(value)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  q.Prompt,
			Value: value,
		})
	}

	return &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: decisionButtons(applicantID, false),
	}
}

// truncateAnswer caps an answer to the embed field limit without splitting a
// rune mid-sequence.
func truncateAnswer(value string) string {
	if len(value) <= answerFieldLimit {
		return value
	}
	cut := answerFieldLimit
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}

// decisionButtons builds the Approve/Reject row, optionally disabled.
func decisionButtons(applicantID string, disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: approvePrefix + applicantID,
					Label:    "Approve",
					Style:    discordgo.SuccessButton,
					Disabled: disabled,
				},
				discordgo.Button{
					CustomID: rejectPrefix + applicantID,
					Label:    "Reject",
					Style:    discordgo.DangerButton,
					Disabled: disabled,
				},
			},
		},
	}
}
