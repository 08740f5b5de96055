package characters

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mossvale/delve-bot-discord/internal/domain/character"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedisRepository(&RedisRepoConfig{Client: s.mockClient})
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	char := &character.Character{
		ID:      "char-1",
		OwnerID: "user-1",
		GuildID: "guild-1",
		Name:    "Brynn",
		Level:   3,
		MaxHP:   24,
	}
	data, err := json.Marshal(char)
	s.Require().NoError(err)

	// Happy path
	s.mock.ExpectGet("character:guild-1:user-1").SetVal(string(data))

	got, err := s.repo.Get(ctx, "guild-1", "user-1")
	s.NoError(err)
	s.Equal("Brynn", got.Name)
	s.Equal(3, got.Level)

	// Missing key
	s.mock.ExpectGet("character:guild-1:user-2").RedisNil()

	_, err = s.repo.Get(ctx, "guild-1", "user-2")
	s.Error(err)
	s.True(dnderr.IsNotFound(err))

	// Dependency error
	s.mock.ExpectGet("character:guild-1:user-1").SetErr(errors.New("redis error"))

	_, err = s.repo.Get(ctx, "guild-1", "user-1")
	s.Error(err)
	s.False(dnderr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestSave() {
	ctx := context.Background()
	char := &character.Character{
		ID:      "char-1",
		OwnerID: "user-1",
		GuildID: "guild-1",
		Name:    "Brynn",
	}

	// Save stamps timestamps, so match the payload loosely.
	s.mock.Regexp().ExpectSet("character:guild-1:user-1", `.*"name":"Brynn".*`, 0).SetVal("OK")
	s.mock.ExpectSAdd("guild:guild-1:characters", "user-1").SetVal(1)

	s.NoError(s.repo.Save(ctx, char))
	s.False(char.CreatedAt.IsZero())
	s.False(char.UpdatedAt.IsZero())

	// Dependency error
	s.mock.Regexp().ExpectSet("character:guild-1:user-1", `.*`, 0).SetErr(errors.New("redis error"))

	s.Error(s.repo.Save(ctx, char))

	// Input validation
	s.Error(s.repo.Save(ctx, nil))
	s.Error(s.repo.Save(ctx, &character.Character{Name: "NoIDs"}))
}

func (s *RedisRepoTestSuite) TestClear() {
	ctx := context.Background()

	s.mock.ExpectDel("character:guild-1:user-1").SetVal(1)
	s.mock.ExpectSRem("guild:guild-1:characters", "user-1").SetVal(1)

	s.NoError(s.repo.Clear(ctx, "guild-1", "user-1"))

	// Dependency error
	s.mock.ExpectDel("character:guild-1:user-1").SetErr(errors.New("redis error"))

	s.Error(s.repo.Clear(ctx, "guild-1", "user-1"))
}

func (s *RedisRepoTestSuite) TestList() {
	ctx := context.Background()
	brynn := &character.Character{ID: "char-1", OwnerID: "user-1", GuildID: "guild-1", Name: "Brynn"}
	tovak := &character.Character{ID: "char-2", OwnerID: "user-2", GuildID: "guild-1", Name: "Tovak"}
	brynnData, err := json.Marshal(brynn)
	s.Require().NoError(err)
	tovakData, err := json.Marshal(tovak)
	s.Require().NoError(err)

	// Happy path, with a stale index entry that is skipped.
	s.mock.ExpectSMembers("guild:guild-1:characters").SetVal([]string{"user-1", "user-2", "user-gone"})
	s.mock.ExpectGet("character:guild-1:user-1").SetVal(string(brynnData))
	s.mock.ExpectGet("character:guild-1:user-2").SetVal(string(tovakData))
	s.mock.ExpectGet("character:guild-1:user-gone").RedisNil()

	chars, err := s.repo.List(ctx, "guild-1")
	s.NoError(err)
	s.Len(chars, 2)
	s.Equal("Brynn", chars["user-1"].Name)
	s.Equal("Tovak", chars["user-2"].Name)

	// Dependency error
	s.mock.ExpectSMembers("guild:guild-1:characters").SetErr(errors.New("redis error"))

	_, err = s.repo.List(ctx, "guild-1")
	s.Error(err)
}
