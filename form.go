package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

const (
	modalLogin    = "login"
	modalRegister = "register"
)

// ModalCustomID tags a modal with the interaction that opened it.
func ModalCustomID(kind string, interactionID string) string {
	return kind + ":" + interactionID
}

// ParseModalCustomID splits a modal custom ID into its kind and originating interaction.
func ParseModalCustomID(customID string) (kind string, interactionID string) {
	kind, interactionID, _ = strings.Cut(customID, ":")
	return kind, interactionID
}

func credentialInputs() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:  "username",
					Label:     "Username",
					Style:     discordgo.TextInputShort,
					Required:  true,
					MinLength: 1,
					MaxLength: 64,
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:  "password",
					Label:     "Password",
					Style:     discordgo.TextInputShort,
					Required:  true,
					MinLength: 1,
					MaxLength: 128,
				},
			},
		},
	}
}

// LoginModal builds the credential form shown by /login.
func LoginModal(interactionID string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   ModalCustomID(modalLogin, interactionID),
			Title:      "Log In",
			Components: credentialInputs(),
		},
	}
}

// RegisterModal asks for the account credentials of a business whose profile
// was given as command options.
func RegisterModal(interactionID string, businessName string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   ModalCustomID(modalRegister, interactionID),
			Title:      truncate(fmt.Sprintf("Register %s", businessName), 42),
			Components: credentialInputs(),
		},
	}
}

// ModalValues collects submitted text inputs by custom ID.
func ModalValues(components []discordgo.MessageComponent) map[string]string {
	values := make(map[string]string)

	rows := lo.FilterMap(components, func(component discordgo.MessageComponent, _ int) (*discordgo.ActionsRow, bool) {
		row, ok := component.(*discordgo.ActionsRow)
		return row, ok
	})
	for _, row := range rows {
		for _, component := range row.Components {
			if input, ok := component.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}

	return values
}

// ProfileFromOptions builds a business profile from /register options. Credentials are filled in later.
func ProfileFromOptions(options []*discordgo.ApplicationCommandInteractionDataOption) BusinessProfile {
	values := lo.Associate(options, func(option *discordgo.ApplicationCommandInteractionDataOption) (string, string) {
		return option.Name, option.StringValue()
	})

	return BusinessProfile{
		Name:         values["name"],
		Email:        values["email"],
		Address:      values["address"],
		Zip:          values["zip"],
		WorkPhone:    values["work_phone"],
		Instructions: values["instructions"],
	}
}

type menuAction struct {
	name        string
	description string
}

var menuActions = map[Menu][]menuAction{
	MenuClient: {
		{"Browse packages", "See food packages offered by nearby businesses."},
		{"Claim a package", "Reserve a package for pickup."},
		{"Mark received", "Confirm a claimed package was picked up."},
	},
	MenuBusiness: {
		{"Create package", "Offer a new food package."},
		{"Your packages", "Review packages and their claims."},
		{"Delete package", "Withdraw a package that is no longer available."},
	},
}

// MenuEmbed renders the menu screen a session routes to.
func MenuEmbed(menu Menu) *discordgo.MessageEmbed {
	title := "Client Menu"
	if menu == MenuBusiness {
		title = "Business Menu"
	}

	return &discordgo.MessageEmbed{
		Title: title,
		Fields: lo.Map(menuActions[menu], func(action menuAction, _ int) *discordgo.MessageEmbedField {
			return &discordgo.MessageEmbedField{Name: action.name, Value: action.description}
		}),
		Footer: &discordgo.MessageEmbedFooter{Text: GetFooterText()},
	}
}

// ProfileEmbed renders account details, omitting credentials.
func ProfileEmbed(doc Document) *discordgo.MessageEmbed {
	doc = RedactDocument(doc)
	keys := lo.Keys(doc)
	sort.Strings(keys)

	fields := lo.FilterMap(keys, func(key string, _ int) (*discordgo.MessageEmbedField, bool) {
		if doc[key] == nil || doc[key] == "" {
			return nil, false
		}
		return &discordgo.MessageEmbedField{Name: key, Value: fmt.Sprint(doc[key]), Inline: true}, true
	})

	return &discordgo.MessageEmbed{
		Title:  "Profile",
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: GetFooterText()},
	}
}
