package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/open-bracket/discord-reg-bot/app/shared/testutils"
	"github.com/open-bracket/discord-reg-bot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession stubs the Session surface the operations layer touches.
type fakeSession struct {
	dmChannelErr error
	sendErr      error

	sentChannelID string
	sentData      *discordgo.MessageSend
	responses     []*discordgo.InteractionResponse
	followups     []*discordgo.WebhookParams
	edits         []*discordgo.MessageEdit
	deleted       []string
}

func (f *fakeSession) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.dmChannelErr != nil {
		return nil, f.dmChannelErr
	}
	return &discordgo.Channel{ID: "dm-" + recipientID}, nil
}

func (f *fakeSession) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return f.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Content: content})
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sentChannelID = channelID
	f.sentData = data
	return &discordgo.Message{ID: "sent-1", ChannelID: channelID}, nil
}

func (f *fakeSession) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID}, nil
}

func (f *fakeSession) ChannelMessageDelete(channelID, messageID string, _ ...discordgo.RequestOption) error {
	f.deleted = append(f.deleted, channelID+"/"+messageID)
	return nil
}

func (f *fakeSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.followups = append(f.followups, data)
	return &discordgo.Message{}, nil
}

func (f *fakeSession) ApplicationCommandCreate(_, _ string, cmd *discordgo.ApplicationCommand, _ ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	return cmd, nil
}

func (f *fakeSession) GetBotUser() (*discordgo.User, error) { return &discordgo.User{ID: "bot"}, nil }
func (f *fakeSession) AddHandler(interface{}) func()        { return func() {} }
func (f *fakeSession) Open() error                          { return nil }
func (f *fakeSession) Close() error                         { return nil }

func newTestOperations(session Session) Operations {
	return NewOperations(session, testutils.NoOpLogger(), &config.Config{})
}

func TestSendDM(t *testing.T) {
	session := &fakeSession{}
	ops := newTestOperations(session)

	msg, err := ops.SendDM(context.Background(), "user-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "dm-user-1", msg.ChannelID)
	assert.Equal(t, "hello", session.sentData.Content)
}

func TestSendDM_ChannelFailure(t *testing.T) {
	session := &fakeSession{dmChannelErr: errors.New("DMs closed")}
	ops := newTestOperations(session)

	_, err := ops.SendDM(context.Background(), "user-1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DM channel")
}

func TestRespondEphemeral(t *testing.T) {
	session := &fakeSession{}
	ops := newTestOperations(session)

	require.NoError(t, ops.RespondEphemeral(context.Background(), &discordgo.Interaction{}, "shh"))
	require.Len(t, session.responses, 1)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, session.responses[0].Data.Flags)
	assert.Equal(t, "shh", session.responses[0].Data.Content)
}

func TestRespondMessage(t *testing.T) {
	session := &fakeSession{}
	ops := newTestOperations(session)

	require.NoError(t, ops.RespondMessage(context.Background(), &discordgo.Interaction{}, "hello all"))
	require.Len(t, session.responses, 1)
	assert.Zero(t, session.responses[0].Data.Flags)
}

func TestFollowupEphemeral(t *testing.T) {
	session := &fakeSession{}
	ops := newTestOperations(session)

	require.NoError(t, ops.FollowupEphemeral(context.Background(), &discordgo.Interaction{}, "later"))
	require.Len(t, session.followups, 1)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, session.followups[0].Flags)
}

func TestEditMessageComponents(t *testing.T) {
	session := &fakeSession{}
	ops := newTestOperations(session)

	components := []discordgo.MessageComponent{discordgo.ActionsRow{}}
	require.NoError(t, ops.EditMessageComponents(context.Background(), "chan-1", "msg-1", components))
	require.Len(t, session.edits, 1)
	assert.Equal(t, "chan-1", session.edits[0].Channel)
	assert.Equal(t, "msg-1", session.edits[0].ID)
}

func TestDeleteMessage(t *testing.T) {
	session := &fakeSession{}
	ops := newTestOperations(session)

	require.NoError(t, ops.DeleteMessage(context.Background(), "chan-1", "msg-1"))
	assert.Equal(t, []string{"chan-1/msg-1"}, session.deleted)
}

func TestMemberHasRole(t *testing.T) {
	member := &discordgo.Member{Roles: []string{"role-a", "role-b"}}
	assert.True(t, MemberHasRole(member, "role-b"))
	assert.False(t, MemberHasRole(member, "role-c"))
	assert.False(t, MemberHasRole(nil, "role-a"))
	assert.False(t, MemberHasRole(member, ""))
}

func TestDisabledComponents(t *testing.T) {
	in := []discordgo.MessageComponent{
		&discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				&discordgo.Button{CustomID: "approve|user-1", Label: "Approve"},
				&discordgo.Button{CustomID: "reject|user-1", Label: "Reject"},
			},
		},
	}
	out := DisabledComponents(in)
	row := out[0].(discordgo.ActionsRow)
	for _, c := range row.Components {
		assert.True(t, c.(discordgo.Button).Disabled)
	}
	// Originals untouched.
	assert.False(t, in[0].(*discordgo.ActionsRow).Components[0].(*discordgo.Button).Disabled)
}
