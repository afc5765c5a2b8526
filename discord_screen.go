package main

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// DiscordScreen drives one submitted modal. Disabling submit defers the
// interaction response; messages and menus then edit that deferred response.
// If deferring failed, they are sent as the first response instead.
type DiscordScreen struct {
	respond   func(response *discordgo.InteractionResponse) error
	edit      func(edit *discordgo.WebhookEdit) error
	log       *log.Entry
	responded bool
}

func NewDiscordScreen(session *discordgo.Session, interaction *discordgo.Interaction) *DiscordScreen {
	return &DiscordScreen{
		respond: func(response *discordgo.InteractionResponse) error {
			return session.InteractionRespond(interaction, response)
		},
		edit: func(edit *discordgo.WebhookEdit) error {
			_, err := session.InteractionResponseEdit(interaction, edit)
			return err
		},
		log: log.WithField("interaction", interaction.ID),
	}
}

func (s *DiscordScreen) SetSubmitEnabled(enabled bool) {
	if enabled {
		s.log.Debug("Submit enabled")
		return
	}
	if s.responded {
		return
	}

	err := s.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		s.log.WithError(err).Error("Could not defer interaction response")
		return
	}
	s.responded = true
}

// ClearFields has nothing to clear: a submitted modal keeps no inputs.
func (s *DiscordScreen) ClearFields() {
	s.log.Debug("Modal inputs discarded")
}

func (s *DiscordScreen) ShowMessage(message string) {
	s.show(message, nil)
}

func (s *DiscordScreen) Navigate(menu Menu) {
	s.ShowEmbed(MenuEmbed(menu))
}

func (s *DiscordScreen) ShowEmbed(embed *discordgo.MessageEmbed) {
	s.show("", []*discordgo.MessageEmbed{embed})
}

func (s *DiscordScreen) show(content string, embeds []*discordgo.MessageEmbed) {
	if !s.responded {
		err := s.respond(&discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: content,
				Embeds:  embeds,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			s.log.WithError(err).Error("Could not respond to interaction")
			return
		}
		s.responded = true
		return
	}

	edit := &discordgo.WebhookEdit{Content: &content}
	if embeds != nil {
		edit.Embeds = &embeds
	}
	if err := s.edit(edit); err != nil {
		s.log.WithError(err).Error("Could not update interaction response")
	}
}
