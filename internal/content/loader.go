package content

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/mossvale/delve-bot-discord/internal/domain/content"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

// Library holds every loaded registry, built once at startup and shared
// read-only afterwards.
type Library struct {
	Monsters *Registry[*content.Monster]
	Traps    *Registry[*content.Trap]
	Items    *Registry[*content.Item]
	Themes   *Registry[*content.Theme]
}

// themeFile is the on-disk shape of a theme; pools reference other
// categories by key and are resolved against the loaded registries.
type themeFile struct {
	Key           string                 `yaml:"key"`
	Name          string                 `yaml:"name"`
	Description   string                 `yaml:"description"`
	RoomTemplates []content.RoomTemplate `yaml:"room_templates"`
	Monsters      []string               `yaml:"monsters"`
	Traps         []string               `yaml:"traps"`
	Loot          []string               `yaml:"loot"`
	Encounters    map[string]int         `yaml:"encounters"`
	Aliases       []string               `yaml:"aliases"`
}

// LoadLibrary reads a content pack directory with one subdirectory per
// category (monsters, traps, items, themes), each holding one YAML file per
// entry. Any malformed file or unresolved theme reference fails the whole
// load with the offending path; a partially loaded pack would silently skew
// later draws.
func LoadLibrary(dir string) (*Library, error) {
	lib := &Library{
		Monsters: NewRegistry[*content.Monster](),
		Traps:    NewRegistry[*content.Trap](),
		Items:    NewRegistry[*content.Item](),
		Themes:   NewRegistry[*content.Theme](),
	}

	var group errgroup.Group
	group.Go(func() error {
		return loadCategory(filepath.Join(dir, "monsters"), func(key string, node *yaml.Node, path string) error {
			monster := &content.Monster{}
			if err := node.Decode(monster); err != nil {
				return dnderr.Wrapf(err, "decoding %s", path)
			}
			if monster.Key == "" {
				monster.Key = key
			}
			if err := monster.Validate(); err != nil {
				return dnderr.Wrapf(err, "validating %s", path)
			}
			return lib.Monsters.Register(monster.Key, monster, append(monster.Aliases, monster.Name)...)
		})
	})
	group.Go(func() error {
		return loadCategory(filepath.Join(dir, "traps"), func(key string, node *yaml.Node, path string) error {
			trap := &content.Trap{}
			if err := node.Decode(trap); err != nil {
				return dnderr.Wrapf(err, "decoding %s", path)
			}
			if trap.Key == "" {
				trap.Key = key
			}
			if err := trap.Validate(); err != nil {
				return dnderr.Wrapf(err, "validating %s", path)
			}
			return lib.Traps.Register(trap.Key, trap, append(trap.Aliases, trap.Name)...)
		})
	})
	group.Go(func() error {
		return loadCategory(filepath.Join(dir, "items"), func(key string, node *yaml.Node, path string) error {
			item := &content.Item{}
			if err := node.Decode(item); err != nil {
				return dnderr.Wrapf(err, "decoding %s", path)
			}
			if item.Key == "" {
				item.Key = key
			}
			if err := item.Validate(); err != nil {
				return dnderr.Wrapf(err, "validating %s", path)
			}
			return lib.Items.Register(item.Key, item, append(item.Aliases, item.Name)...)
		})
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	// Themes resolve against the other categories, so they load last.
	err := loadCategory(filepath.Join(dir, "themes"), func(key string, node *yaml.Node, path string) error {
		theme, err := lib.resolveTheme(key, node, path)
		if err != nil {
			return err
		}
		return lib.Themes.Register(theme.Key, theme, append(theme.Aliases, theme.Name)...)
	})
	if err != nil {
		return nil, err
	}

	return lib, nil
}

func (l *Library) resolveTheme(key string, node *yaml.Node, path string) (*content.Theme, error) {
	var file themeFile
	if err := node.Decode(&file); err != nil {
		return nil, dnderr.Wrapf(err, "decoding %s", path)
	}
	if file.Key == "" {
		file.Key = key
	}

	theme := &content.Theme{
		Key:           file.Key,
		Name:          file.Name,
		Description:   file.Description,
		RoomTemplates: file.RoomTemplates,
		Aliases:       file.Aliases,
	}

	for _, ref := range file.Monsters {
		monster, err := l.Monsters.Get(ref)
		if err != nil {
			return nil, dnderr.Wrapf(err, "theme %s references unknown monster %q", path, ref)
		}
		theme.Monsters = append(theme.Monsters, monster)
	}
	for _, ref := range file.Traps {
		trap, err := l.Traps.Get(ref)
		if err != nil {
			return nil, dnderr.Wrapf(err, "theme %s references unknown trap %q", path, ref)
		}
		theme.Traps = append(theme.Traps, trap)
	}
	for _, ref := range file.Loot {
		item, err := l.Items.Get(ref)
		if err != nil {
			return nil, dnderr.Wrapf(err, "theme %s references unknown item %q", path, ref)
		}
		theme.Loot = append(theme.Loot, item)
	}

	encounters := file.Encounters
	if len(encounters) == 0 {
		encounters = map[string]int{"combat": 3, "trap": 1, "treasure": 1, "empty": 1}
	}
	table, err := content.NewEncounterTable(encounters)
	if err != nil {
		return nil, dnderr.Wrapf(err, "theme %s", path)
	}
	theme.EncounterTable = table

	if err := theme.Validate(); err != nil {
		return nil, dnderr.Wrapf(err, "validating %s", path)
	}
	return theme, nil
}

// loadCategory walks one category directory, calling register for each YAML
// file with the file-derived fallback key. A missing directory is an empty
// category, not an error.
func loadCategory(dir string, register func(key string, node *yaml.Node, path string) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return dnderr.Wrapf(err, "reading content directory %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return dnderr.Wrapf(err, "reading %s", path)
		}
		var node yaml.Node
		if err := yaml.Unmarshal(raw, &node); err != nil {
			return dnderr.Wrapf(err, "parsing %s", path)
		}
		if node.Kind == 0 || len(node.Content) == 0 {
			continue
		}

		key := strings.TrimSuffix(name, filepath.Ext(name))
		if err := register(key, node.Content[0], path); err != nil {
			return err
		}
	}
	return nil
}
