package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/mossvale/delve-bot-discord/internal/domain/combat"
	"github.com/mossvale/delve-bot-discord/internal/domain/content"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
	"github.com/mossvale/delve-bot-discord/internal/services"
	characterService "github.com/mossvale/delve-bot-discord/internal/services/character"
	dungeonService "github.com/mossvale/delve-bot-discord/internal/services/dungeon"
	"github.com/mossvale/delve-bot-discord/internal/session"
)

// Handler routes Discord interactions to the service layer. It owns no game
// logic; it translates options in and summaries out.
type Handler struct {
	provider *services.Provider
	log      *zap.Logger
}

// HandlerConfig holds configuration for the Discord handler
type HandlerConfig struct {
	ServiceProvider *services.Provider
	Logger          *zap.Logger
}

// NewHandler creates a new Discord handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg == nil || cfg.ServiceProvider == nil {
		panic("service provider is required")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{provider: cfg.ServiceProvider, log: log}
}

// Commands returns the slash command definitions to register
func (h *Handler) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "delve",
			Description: "Dungeon runs",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "start",
					Description: "Start a dungeon run",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "theme", Description: "Dungeon theme", Type: discordgo.ApplicationCommandOptionString, Required: true},
						{Name: "difficulty", Description: "easy, standard, hard, or deadly", Type: discordgo.ApplicationCommandOptionString},
						{Name: "rooms", Description: "Number of rooms", Type: discordgo.ApplicationCommandOptionInteger},
					},
				},
				{Name: "advance", Description: "Move to the next room", Type: discordgo.ApplicationCommandOptionSubCommand},
				{Name: "fight", Description: "Engage the room's monsters", Type: discordgo.ApplicationCommandOptionSubCommand},
				{Name: "loot", Description: "Claim the room's treasure", Type: discordgo.ApplicationCommandOptionSubCommand},
				{Name: "complete", Description: "Finish the run", Type: discordgo.ApplicationCommandOptionSubCommand},
				{Name: "abandon", Description: "Abandon the run", Type: discordgo.ApplicationCommandOptionSubCommand},
				{
					Name:        "save",
					Description: "Save this run's recipe for replay",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "name", Description: "Recipe name", Type: discordgo.ApplicationCommandOptionString, Required: true},
					},
				},
				{
					Name:        "replay",
					Description: "Start a run from a saved recipe",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "name", Description: "Recipe name", Type: discordgo.ApplicationCommandOptionString, Required: true},
					},
				},
				{Name: "runs", Description: "List saved recipes", Type: discordgo.ApplicationCommandOptionSubCommand},
			},
		},
		{
			Name:        "party",
			Description: "Lobby parties",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "create",
					Description: "Open a lobby in this channel",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "name", Description: "Party name", Type: discordgo.ApplicationCommandOptionString},
					},
				},
				{Name: "join", Description: "Join the lobby", Type: discordgo.ApplicationCommandOptionSubCommand},
				{Name: "leave", Description: "Leave the lobby", Type: discordgo.ApplicationCommandOptionSubCommand},
				{
					Name:        "vote",
					Description: "Vote on where to delve",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "choice", Description: "Your pick", Type: discordgo.ApplicationCommandOptionString, Required: true},
					},
				},
			},
		},
		{
			Name:        "character",
			Description: "Adventurers",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "create",
					Description: "Roll up an adventurer",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "name", Description: "Character name", Type: discordgo.ApplicationCommandOptionString, Required: true},
					},
				},
				{Name: "show", Description: "Show your adventurer", Type: discordgo.ApplicationCommandOptionSubCommand},
				{Name: "delete", Description: "Retire your adventurer", Type: discordgo.ApplicationCommandOptionSubCommand},
			},
		},
	}
}

// HandleInteraction dispatches an interaction to the matching command handler
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	var response string
	var err error

	switch data.Name {
	case "delve":
		response, err = h.handleDelve(s, i, data)
	case "party":
		response, err = h.handleParty(i, data)
	case "character":
		response, err = h.handleCharacter(i, data)
	default:
		return
	}

	if err != nil {
		h.log.Warn("command failed",
			zap.String("command", data.Name),
			zap.String("channel", i.ChannelID),
			zap.Error(err))
		response = userMessage(err)
	}
	h.respond(s, i, response)
}

func (h *Handler) handleDelve(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) (string, error) {
	key := session.Key{GuildID: i.GuildID, ChannelID: i.ChannelID}
	sub := data.Options[0]

	switch sub.Name {
	case "start":
		input := &dungeonService.StartInput{
			GuildID:    i.GuildID,
			ChannelID:  i.ChannelID,
			Difficulty: "standard",
			RoomCount:  5,
			PartyIDs:   []string{interactionUserID(i)},
		}
		for _, opt := range sub.Options {
			switch opt.Name {
			case "theme":
				input.ThemeKey = opt.StringValue()
			case "difficulty":
				input.Difficulty = opt.StringValue()
			case "rooms":
				input.RoomCount = int(opt.IntValue())
			}
		}
		sess, err := h.provider.DungeonService.Start(context.Background(), input)
		if err != nil {
			return "", err
		}
		room := sess.Room()
		return fmt.Sprintf("**%s** awaits. You stand in **%s**.\n%s\n%s",
			sess.Dungeon.Name, room.Name, room.Description, room.Encounter.Summary), nil

	case "advance":
		view, err := h.provider.DungeonService.Advance(key)
		if err != nil {
			return "", err
		}
		lines := []string{view.Corridor, fmt.Sprintf("You enter **%s**.", view.Room.Name), view.Room.Description, view.Room.Encounter.Summary}
		if view.FinalRoom {
			lines = append(lines, "This looks like the final chamber.")
		}
		return strings.Join(lines, "\n"), nil

	case "fight":
		sess, err := h.provider.DungeonService.Session(key)
		if err != nil {
			return "", err
		}
		party, err := h.partyCombatants(i.GuildID, sess.PartyIDs)
		if err != nil {
			return "", err
		}
		state, err := h.provider.DungeonService.EnterCombat(key, party)
		if err != nil {
			return "", err
		}
		return strings.Join(state.Log, "\n"), nil

	case "loot":
		sess, err := h.provider.DungeonService.Session(key)
		if err != nil {
			return "", err
		}
		order := make([]string, 0, len(sess.PartyIDs))
		for userID := range sess.PartyIDs {
			order = append(order, userID)
		}
		outcome, err := h.provider.DungeonService.ClaimTreasure(key, order)
		if err != nil {
			return "", err
		}
		var lines []string
		for _, share := range outcome.Allocation.Shares {
			itemNames := make([]string, len(share.Items))
			for n, item := range share.Items {
				itemNames[n] = item.Name
			}
			line := fmt.Sprintf("<@%s> receives %d gold", share.UserID, share.Gold)
			if len(itemNames) > 0 {
				line += " and " + strings.Join(itemNames, ", ")
			}
			lines = append(lines, line)
			if _, grantErr := h.provider.CharacterService.GrantRewards(context.Background(), i.GuildID, share.UserID, share.Gold, itemKeys(share.Items)); grantErr != nil && !dnderr.IsNotFound(grantErr) {
				h.log.Warn("failed to credit rewards", zap.String("user", share.UserID), zap.Error(grantErr))
			}
		}
		return strings.Join(lines, "\n"), nil

	case "complete":
		sess, err := h.provider.DungeonService.Complete(key)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Run complete! Rooms explored: %d, monsters defeated: %d, traps disarmed: %d, gold recovered: %d.",
			len(sess.Breadcrumbs), sess.MonstersDefeated, sess.TrapsDisarmed, sess.TreasureGold), nil

	case "abandon":
		if !h.provider.DungeonService.Abandon(key) {
			return "", dnderr.NotFound("no active dungeon run in this channel")
		}
		return "The party retreats to the surface.", nil

	case "save":
		name := sub.Options[0].StringValue()
		if err := h.provider.DungeonService.SaveRun(context.Background(), key, name); err != nil {
			return "", err
		}
		return fmt.Sprintf("Recipe **%s** saved. Replay it with `/delve replay`.", name), nil

	case "replay":
		name := sub.Options[0].StringValue()
		sess, err := h.provider.DungeonService.StartSaved(context.Background(), key, name, []string{interactionUserID(i)})
		if err != nil {
			return "", err
		}
		room := sess.Room()
		return fmt.Sprintf("**%s** awaits once more. You stand in **%s**.\n%s\n%s",
			sess.Dungeon.Name, room.Name, room.Description, room.Encounter.Summary), nil

	case "runs":
		names, err := h.provider.DungeonService.ListSaved(context.Background(), i.GuildID)
		if err != nil {
			return "", err
		}
		if len(names) == 0 {
			return "No saved recipes yet.", nil
		}
		return "Saved recipes: " + strings.Join(names, ", "), nil
	}
	return "", dnderr.InvalidArgumentf("unknown subcommand '%s'", sub.Name)
}

func (h *Handler) handleParty(i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) (string, error) {
	key := session.Key{GuildID: i.GuildID, ChannelID: i.ChannelID}
	userID := interactionUserID(i)
	sub := data.Options[0]

	switch sub.Name {
	case "create":
		name := ""
		for _, opt := range sub.Options {
			if opt.Name == "name" {
				name = opt.StringValue()
			}
		}
		party, err := h.provider.PartyService.Create(key, name)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("**%s** is forming! Use `/party join` to sign up.", party.Name), nil

	case "join":
		status, err := h.provider.PartyService.Join(key, userID)
		if err != nil {
			return "", err
		}
		switch status {
		case "added":
			return fmt.Sprintf("<@%s> joins the party!", userID), nil
		case "exists":
			return "You are already in the party.", nil
		default:
			return "The party is full.", nil
		}

	case "leave":
		removed, err := h.provider.PartyService.Leave(key, userID)
		if err != nil {
			return "", err
		}
		if !removed {
			return "You were not in the party.", nil
		}
		return fmt.Sprintf("<@%s> leaves the party.", userID), nil

	case "vote":
		choice := sub.Options[0].StringValue()
		result, err := h.provider.PartyService.RecordVote(key, userID, choice)
		if err != nil {
			return "", err
		}
		switch result.Status {
		case "not_member":
			return "Join the party before voting.", nil
		case "majority":
			return fmt.Sprintf("**%s** wins the vote (%d/%d)!", result.Choice, result.VotesFor, result.Required), nil
		default:
			return fmt.Sprintf("Vote recorded for **%s** (%d/%d).", result.Choice, result.VotesFor, result.Required), nil
		}
	}
	return "", dnderr.InvalidArgumentf("unknown subcommand '%s'", sub.Name)
}

func (h *Handler) handleCharacter(i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) (string, error) {
	userID := interactionUserID(i)
	sub := data.Options[0]

	switch sub.Name {
	case "create":
		name := sub.Options[0].StringValue()
		char, err := h.provider.CharacterService.Create(context.Background(), &characterService.CreateInput{
			GuildID: i.GuildID,
			OwnerID: userID,
			Name:    name,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("**%s** is ready to delve! HP %d, AC %d.", char.Name, char.MaxHP, char.ArmorClass), nil

	case "show":
		char, err := h.provider.CharacterService.Get(context.Background(), i.GuildID, userID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("**%s** — HP %d/%d, AC %d, gold %d, items: %d.",
			char.Name, char.CurrentHP, char.MaxHP, char.ArmorClass, char.Gold, len(char.Inventory)), nil

	case "delete":
		if err := h.provider.CharacterService.Delete(context.Background(), i.GuildID, userID); err != nil {
			return "", err
		}
		return "Your adventurer hangs up their boots.", nil
	}
	return "", dnderr.InvalidArgumentf("unknown subcommand '%s'", sub.Name)
}

// partyCombatants snapshots the party's stored characters into combat records
func (h *Handler) partyCombatants(guildID string, partyIDs map[string]bool) ([]*combat.CombatantState, error) {
	var party []*combat.CombatantState
	for userID := range partyIDs {
		char, err := h.provider.CharacterService.Get(context.Background(), guildID, userID)
		if err != nil {
			if dnderr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		party = append(party, char.ToCombatant())
	}
	if len(party) == 0 {
		return nil, dnderr.NotFound("nobody in the party has a character")
	}
	return party, nil
}

func (h *Handler) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if content == "" {
		content = "Done."
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		h.log.Error("failed to respond to interaction", zap.Error(err))
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// userMessage maps service errors to a player-facing line
func userMessage(err error) string {
	switch dnderr.GetCode(err) {
	case dnderr.CodeNotFound, dnderr.CodeInvalidArgument, dnderr.CodeAlreadyExists,
		dnderr.CodeResourceExhausted, dnderr.CodeConflict:
		return err.Error()
	default:
		return "Something went wrong in the dungeon depths. Try again."
	}
}

func itemKeys(items []*content.Item) []string {
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Key
	}
	return keys
}
