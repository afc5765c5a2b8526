package main

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedResponses struct {
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
}

func newTestDiscordScreen(record *recordedResponses, respondErr error) *DiscordScreen {
	return &DiscordScreen{
		respond: func(response *discordgo.InteractionResponse) error {
			record.responses = append(record.responses, response)
			return respondErr
		},
		edit: func(edit *discordgo.WebhookEdit) error {
			record.edits = append(record.edits, edit)
			return nil
		},
		log: log.WithField("interaction", "test"),
	}
}

func TestDiscordScreenEditsDeferredResponse(t *testing.T) {
	record := &recordedResponses{}
	screen := newTestDiscordScreen(record, nil)

	screen.SetSubmitEnabled(false)
	screen.ShowMessage(MsgInvalidLogin)

	require.Len(t, record.responses, 1)
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, record.responses[0].Type)
	require.Len(t, record.edits, 1)
	assert.Equal(t, MsgInvalidLogin, *record.edits[0].Content)
	assert.Nil(t, record.edits[0].Embeds)
}

func TestDiscordScreenRespondsWhenDeferFailed(t *testing.T) {
	record := &recordedResponses{}
	screen := newTestDiscordScreen(record, errors.New("unknown interaction"))

	screen.SetSubmitEnabled(false)
	screen.ShowMessage(MsgInvalidLogin)

	assert.Empty(t, record.edits)
	require.Len(t, record.responses, 2)
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, record.responses[1].Type)
	assert.Equal(t, MsgInvalidLogin, record.responses[1].Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, record.responses[1].Data.Flags)
}

func TestDiscordScreenNavigateWithoutDefer(t *testing.T) {
	record := &recordedResponses{}
	screen := newTestDiscordScreen(record, nil)

	screen.Navigate(MenuBusiness)
	screen.ShowMessage("later")

	require.Len(t, record.responses, 1)
	require.Len(t, record.responses[0].Data.Embeds, 1)
	assert.Equal(t, "Business Menu", record.responses[0].Data.Embeds[0].Title)
	require.Len(t, record.edits, 1, "output after the first response edits it")
}
