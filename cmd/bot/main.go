package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mossvale/delve-bot-discord/internal/config"
	"github.com/mossvale/delve-bot-discord/internal/content"
	"github.com/mossvale/delve-bot-discord/internal/handlers/discord"
	"github.com/mossvale/delve-bot-discord/internal/repositories/characters"
	"github.com/mossvale/delve-bot-discord/internal/repositories/metadata"
	"github.com/mossvale/delve-bot-discord/internal/services"
	"github.com/mossvale/delve-bot-discord/internal/session"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	// A partially loaded content set would corrupt later draws, so any
	// load error is fatal here.
	library, err := content.LoadLibrary(cfg.Content.Dir)
	if err != nil {
		log.Fatal("failed to load content library", zap.String("dir", cfg.Content.Dir), zap.Error(err))
	}
	log.Info("content library loaded",
		zap.Int("monsters", library.Monsters.Len()),
		zap.Int("traps", library.Traps.Len()),
		zap.Int("items", library.Items.Len()),
		zap.Int("themes", library.Themes.Len()))

	providerConfig := &services.ProviderConfig{
		Config:  cfg,
		Library: library,
		Logger:  log,
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pingErr := redisClient.Ping(pingCtx).Err()
		cancel()
		if pingErr != nil {
			log.Warn("redis unreachable, using in-memory repositories", zap.Error(pingErr))
			redisClient = nil
		} else {
			log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
			providerConfig.CharacterRepository = characters.NewRedisRepository(&characters.RedisRepoConfig{Client: redisClient})
			providerConfig.MetadataStore = metadata.NewRedisStore(&metadata.RedisStoreConfig{Client: redisClient})
		}
	}

	serviceProvider := services.NewProvider(providerConfig)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serviceProvider.Sessions.StartSweep(ctx, cfg.Session.SweepInterval, cfg.Session.IdleTimeout, func(key session.Key) {
		log.Info("idle dungeon session swept",
			zap.String("guild", key.GuildID),
			zap.String("channel", key.ChannelID))
	})

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatal("failed to create discord session", zap.Error(err))
	}

	handler := discord.NewHandler(&discord.HandlerConfig{
		ServiceProvider: serviceProvider,
		Logger:          log.Named("discord"),
	})
	dg.AddHandler(handler.HandleInteraction)

	if err := dg.Open(); err != nil {
		log.Fatal("failed to open discord connection", zap.Error(err))
	}
	defer func() {
		if closeErr := dg.Close(); closeErr != nil {
			log.Warn("error closing discord connection", zap.Error(closeErr))
		}
		if redisClient != nil {
			if closeErr := redisClient.Close(); closeErr != nil {
				log.Warn("error closing redis client", zap.Error(closeErr))
			}
		}
	}()

	for _, command := range handler.Commands() {
		if _, cmdErr := dg.ApplicationCommandCreate(cfg.Discord.AppID, cfg.Discord.GuildID, command); cmdErr != nil {
			log.Error("failed to register command", zap.String("command", command.Name), zap.Error(cmdErr))
		}
	}

	log.Info("bot is running, press ctrl+c to exit")
	<-ctx.Done()
	log.Info("shutting down")
}
