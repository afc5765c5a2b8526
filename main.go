package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.SetLevel(config.LogLevel)

	// Cancelling this context abandons every in-flight flow.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api, err := NewAPI(config.APIURL)
	if err != nil {
		log.Fatalf("Cannot create API client: %v", err)
	}
	defer api.Close()

	sessions, closeSessions := openSessions(ctx, config.RedisURL)
	defer closeSessions()

	bot := NewBot(ctx, api, sessions)

	session, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		log.Fatalf("Invalid bot parameters: %v", err)
	}

	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Infof("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)

		guilds := s.State.Guilds
		log.Infof("Connected to %d server%s", len(guilds), Plural(len(guilds)))
	})
	err = session.Open()
	if err != nil {
		log.Fatalf("Cannot open the session: %v", err)
	}
	defer session.Close()

	commandHandlers := bot.CommandHandlers()
	modalHandlers := bot.ModalHandlers()
	session.AddHandler(func(internalSession *discordgo.Session, interaction *discordgo.InteractionCreate) {
		switch interaction.Type {
		case discordgo.InteractionApplicationCommand:
			if handler, ok := commandHandlers[interaction.ApplicationCommandData().Name]; ok {
				handler(internalSession, interaction)
			}
		case discordgo.InteractionModalSubmit:
			kind, _ := ParseModalCustomID(interaction.ModalSubmitData().CustomID)
			if handler, ok := modalHandlers[kind]; ok {
				handler(internalSession, interaction)
			}
		}
	})

	log.Infof("Adding %d command%s...", len(commandDefinitions), Plural(len(commandDefinitions)))
	registeredCommands := make([]*discordgo.ApplicationCommand, len(commandDefinitions))
	for definitionIndex, commandDefinition := range commandDefinitions {
		command, err := session.ApplicationCommandCreate(session.State.User.ID, config.TargetGuild, commandDefinition)
		if err != nil {
			log.Panicf("Failed while registering '%v' command: %v", commandDefinition.Name, err)
		}
		registeredCommands[definitionIndex] = command
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	log.Info("Press Ctrl+C to exit")
	<-stop

	cancel()

	log.Infof("Removing %d command%s...", len(registeredCommands), Plural(len(registeredCommands)))
	for _, v := range registeredCommands {
		err := session.ApplicationCommandDelete(session.State.User.ID, config.TargetGuild, v.ID)
		if err != nil {
			log.Errorf("Cannot delete '%v' command: %v", v.Name, err)
		}
	}

	log.Infof("Issued %d API request%s.", api.Requests(), Plural(int(api.Requests())))
	log.Info("Gracefully shutting down.")
}

// openSessions connects the Redis session store, falling back to process memory when no URL is configured.
func openSessions(ctx context.Context, redisURL string) (SessionScope, func()) {
	if strings.TrimSpace(redisURL) == "" {
		log.Warn("REDIS_URL is not set, sessions will not survive a restart")
		return NewMemorySessions(), func() {}
	}

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}

	db := redis.NewClient(options)
	if err := db.Ping(ctx).Err(); err != nil {
		log.Fatalf("Cannot reach Redis: %v", err)
	}

	return NewRedisSessions(db), func() { db.Close() }
}
