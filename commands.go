package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"github.com/zekroTJA/timedmap"
	"golang.org/x/time/rate"
)

const (
	pendingRegistrationTTL = 15 * time.Minute
	loginFlowTTL           = 30 * time.Minute
	loginAttemptBurst      = 5
	loginAttemptInterval   = 12 * time.Second
)

var (
	LoginCommandDefinition = &discordgo.ApplicationCommand{
		Name:        "login",
		Description: "Log in to your food service account",
	}
	RegisterCommandDefinition = &discordgo.ApplicationCommand{
		Name:        "register",
		Description: "Register a business account",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Business name", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "email", Description: "Contact email", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "address", Description: "Street address", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "zip", Description: "ZIP code", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "work_phone", Description: "Work phone number", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "instructions", Description: "Pickup instructions", Required: false},
		},
	}
	MenuCommandDefinition = &discordgo.ApplicationCommand{
		Name:        "menu",
		Description: "Show the menu for your account",
	}
	ProfileCommandDefinition = &discordgo.ApplicationCommand{
		Name:        "profile",
		Description: "Show your account details",
	}
	LogoutCommandDefinition = &discordgo.ApplicationCommand{
		Name:        "logout",
		Description: "Log out of your food service account",
	}

	commandDefinitions = []*discordgo.ApplicationCommand{
		LoginCommandDefinition,
		RegisterCommandDefinition,
		MenuCommandDefinition,
		ProfileCommandDefinition,
		LogoutCommandDefinition,
	}
)

type interactionHandler func(s *discordgo.Session, i *discordgo.InteractionCreate)

// Bot wires Discord interactions to the login and registration flows.
type Bot struct {
	ctx      context.Context
	api      Poster
	sessions SessionScope

	// In order for the modal submission to be useful, the context for its initial request must be stored.
	pendingRegistrations *timedmap.TimedMap

	flowsMu    sync.Mutex
	loginFlows *timedmap.TimedMap

	limitersMu sync.Mutex
	limiters   *timedmap.TimedMap
}

func NewBot(ctx context.Context, api Poster, sessions SessionScope) *Bot {
	return &Bot{
		ctx:                  ctx,
		api:                  api,
		sessions:             sessions,
		pendingRegistrations: timedmap.New(time.Minute),
		loginFlows:           timedmap.New(time.Minute),
		limiters:             timedmap.New(time.Minute),
	}
}

func (b *Bot) CommandHandlers() map[string]interactionHandler {
	return map[string]interactionHandler{
		LoginCommandDefinition.Name:    b.LoginCommandHandler,
		RegisterCommandDefinition.Name: b.RegisterCommandHandler,
		MenuCommandDefinition.Name:     b.MenuCommandHandler,
		ProfileCommandDefinition.Name:  b.ProfileCommandHandler,
		LogoutCommandDefinition.Name:   b.LogoutCommandHandler,
	}
}

func (b *Bot) ModalHandlers() map[string]interactionHandler {
	return map[string]interactionHandler{
		modalLogin:    b.LoginModalHandler,
		modalRegister: b.RegisterModalHandler,
	}
}

func interactionUser(interaction *discordgo.InteractionCreate) *discordgo.User {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User
	}
	return interaction.User
}

func interactionLog(interaction *discordgo.InteractionCreate, command string) *logrus.Entry {
	fields := logrus.Fields{
		"interaction": interaction.ID,
		"command":     command,
	}
	if user := interactionUser(interaction); user != nil {
		fields["user"] = user.ID
	}
	return logrus.WithFields(fields)
}

func GetFooterText() string {
	return fmt.Sprintf("Food Service • %s", time.Now().Format("Jan 2, 3:04 PM"))
}

func RespondEphemeral(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string) {
	err := session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logrus.WithField("interaction", interaction.ID).WithError(err).Error("Could not respond to interaction")
	}
}

// HandleError logs the error and shows the user a fixed message.
func HandleError(session *discordgo.Session, interaction *discordgo.InteractionCreate, err error, message string) {
	entry := logrus.WithField("interaction", interaction.ID)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn(message)
	RespondEphemeral(session, interaction, message)
}

// allowLogin reports whether the user may start another login attempt.
func (b *Bot) allowLogin(userID string) bool {
	b.limitersMu.Lock()
	defer b.limitersMu.Unlock()

	limiter, ok := b.limiters.GetValue(userID).(*rate.Limiter)
	if !ok {
		limiter = rate.NewLimiter(rate.Every(loginAttemptInterval), loginAttemptBurst)
	}
	b.limiters.Set(userID, limiter, time.Hour)

	return limiter.Allow()
}

func (b *Bot) LoginCommandHandler(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if err := session.InteractionRespond(interaction.Interaction, LoginModal(interaction.ID)); err != nil {
		interactionLog(interaction, "login").WithError(err).Error("Could not open login form")
	}
}

func (b *Bot) RegisterCommandHandler(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	log := interactionLog(interaction, "register")
	profile := ProfileFromOptions(interaction.ApplicationCommandData().Options)

	// The profile waits here until the credentials modal is submitted.
	b.pendingRegistrations.Set(interaction.ID, &profile, pendingRegistrationTTL)

	if err := session.InteractionRespond(interaction.Interaction, RegisterModal(interaction.ID, profile.Name)); err != nil {
		b.pendingRegistrations.Remove(interaction.ID)
		log.WithError(err).Error("Could not open registration form")
	}
}

func (b *Bot) MenuCommandHandler(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	log := interactionLog(interaction, "menu")
	account := NewAccount(b.api, b.sessions.ForUser(interactionUser(interaction).ID))

	current, err := account.Session(b.ctx)
	if errors.Is(err, ErrNotLoggedIn) {
		RespondEphemeral(session, interaction, MsgNotLoggedIn)
		return
	}
	if err != nil {
		HandleError(session, interaction, err, MsgUnexpectedFailure)
		return
	}

	menu, _ := current.UserType.Menu()
	err = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{MenuEmbed(menu)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.WithError(err).Error("Could not show menu")
	}
}

func (b *Bot) ProfileCommandHandler(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	log := interactionLog(interaction, "profile")
	account := NewAccount(b.api, b.sessions.ForUser(interactionUser(interaction).ID))

	if _, err := account.Session(b.ctx); err != nil {
		RespondEphemeral(session, interaction, MsgNotLoggedIn)
		return
	}

	screen := NewDiscordScreen(session, interaction.Interaction)
	screen.SetSubmitEnabled(false)

	profile, err := account.Profile(b.ctx)
	if err != nil {
		log.WithError(err).Warn("Could not fetch profile")
		screen.ShowMessage(MsgUnexpectedFailure)
		return
	}

	screen.ShowEmbed(ProfileEmbed(profile))
}

func (b *Bot) LogoutCommandHandler(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	log := interactionLog(interaction, "logout")
	account := NewAccount(b.api, b.sessions.ForUser(interactionUser(interaction).ID))

	err := account.Logout(b.ctx)
	switch {
	case errors.Is(err, ErrNotLoggedIn):
		RespondEphemeral(session, interaction, MsgNotLoggedIn)
	case err != nil:
		log.WithError(err).Warn("Logout incomplete")
		RespondEphemeral(session, interaction, MsgLoggedOut)
	default:
		log.Info("Logged out")
		RespondEphemeral(session, interaction, MsgLoggedOut)
	}
}
