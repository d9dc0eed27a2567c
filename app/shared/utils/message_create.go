package messagecreator

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"
)

// NewEventMessage builds a watermill message carrying the JSON-encoded
// payload, stamped with the topic it should be published to.
func NewEventMessage(topic string, payload interface{}) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)
	msg.Metadata.Set("domain", "discord")
	return msg, nil
}

// FromInteraction builds an event message and stamps it with the originating
// interaction so follow-up responses can find their way back.
func FromInteraction(topic string, payload interface{}, i *discordgo.InteractionCreate) (*message.Message, error) {
	msg, err := NewEventMessage(topic, payload)
	if err != nil {
		return nil, err
	}
	if i != nil && i.Interaction != nil {
		msg.Metadata.Set("interaction_id", i.Interaction.ID)
		msg.Metadata.Set("interaction_token", i.Interaction.Token)
		if i.Interaction.GuildID != "" {
			msg.Metadata.Set("guild_id", i.Interaction.GuildID)
		}
	}
	return msg, nil
}
