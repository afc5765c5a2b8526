package main

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (b *Bot) LoginModalHandler(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	entry := interactionLog(interaction, "login")
	user := interactionUser(interaction)

	if !b.allowLogin(user.ID) {
		HandleError(session, interaction, ErrRateLimited, MsgTooManyAttempts)
		return
	}

	flow, err := b.startLoginFlow(session, interaction)
	if errors.Is(err, ErrFlowBusy) {
		RespondEphemeral(session, interaction, MsgLoginInProgress)
		return
	}
	if err != nil {
		HandleError(session, interaction, err, MsgUnexpectedFailure)
		return
	}

	values := ModalValues(interaction.ModalSubmitData().Components)
	outcome, err := flow.Submit(b.ctx, Credentials{
		Username: values["username"],
		Password: values["password"],
	})
	if err != nil {
		b.forgetLoginFlow(user.ID, flow)
		HandleError(session, interaction, err, MsgUnexpectedFailure)
		return
	}

	go func() {
		result := <-outcome
		entry.WithFields(log.Fields{"state": result.State, "menu": result.Menu}).Debug("Login flow finished")
		b.forgetLoginFlow(user.ID, flow)
	}()
}

// startLoginFlow creates the user's login flow unless one is already in flight.
func (b *Bot) startLoginFlow(session *discordgo.Session, interaction *discordgo.InteractionCreate) (*LoginFlow, error) {
	b.flowsMu.Lock()
	defer b.flowsMu.Unlock()

	userID := interactionUser(interaction).ID
	if existing, ok := b.loginFlows.GetValue(userID).(*LoginFlow); ok {
		if existing.State().InFlight() {
			return nil, ErrFlowBusy
		}
		// The previous modal's screen is given up.
		existing.Close()
	}

	flow := NewLoginFlow(b.api, b.sessions.ForUser(userID), NewDiscordScreen(session, interaction.Interaction))
	// An expired flow's interaction can no longer be answered, so its request is cancelled.
	b.loginFlows.Set(userID, flow, loginFlowTTL, func(value interface{}) {
		if expired, ok := value.(*LoginFlow); ok {
			expired.Close()
		}
	})
	return flow, nil
}

func (b *Bot) forgetLoginFlow(userID string, flow *LoginFlow) {
	b.flowsMu.Lock()
	defer b.flowsMu.Unlock()

	if existing, ok := b.loginFlows.GetValue(userID).(*LoginFlow); ok && existing == flow {
		b.loginFlows.Remove(userID)
	}
}

func (b *Bot) RegisterModalHandler(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	entry := interactionLog(interaction, "register")
	data := interaction.ModalSubmitData()

	_, origin := ParseModalCustomID(data.CustomID)
	pending, ok := b.pendingRegistrations.GetValue(origin).(*BusinessProfile)
	if !ok {
		HandleError(session, interaction, ErrFormMismatch, ":x: This registration expired. Please run /register again.")
		return
	}
	// Each pending profile is submitted at most once.
	b.pendingRegistrations.Remove(origin)

	values := ModalValues(data.Components)
	profile := *pending
	profile.Username = values["username"]
	profile.Password = values["password"]

	flow := NewRegisterFlow(b.api, NewDiscordScreen(session, interaction.Interaction))
	outcome, err := flow.Submit(b.ctx, profile)
	if err != nil {
		HandleError(session, interaction, err, MsgUnexpectedFailure)
		return
	}

	go func() {
		result := <-outcome
		entry.WithField("state", result.State).Debug("Registration flow finished")
	}()
}
