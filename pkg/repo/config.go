package repo

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bigkevmcd/go-configparser"
)

// Config holds repository settings read from the INI config file: the
// bareness flag from [core] and the URL of each [remote "<name>"] section.
type Config struct {
	Bare    bool
	Remotes map[string]string
}

func (r *Repository) configPath() string {
	return r.metaPath("config")
}

// ReadConfig parses the repository config file. A missing file yields a
// non-bare config with no remotes.
func (r *Repository) ReadConfig() (*Config, error) {
	cfg := &Config{Remotes: make(map[string]string)}

	if _, err := os.Stat(r.configPath()); os.IsNotExist(err) {
		return cfg, nil
	}
	parser, err := configparser.NewConfigParserFromFile(r.configPath())
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if bare, err := parser.Get("core", "bare"); err == nil {
		cfg.Bare = bare == "true"
	}
	for _, section := range parser.Sections() {
		name, ok := remoteSectionName(section)
		if !ok {
			continue
		}
		url, err := parser.Get(section, "url")
		if err != nil {
			continue
		}
		cfg.Remotes[name] = url
	}
	return cfg, nil
}

// remoteSectionName extracts <name> from a section header of the form
// `remote "<name>"`.
func remoteSectionName(section string) (string, bool) {
	rest, ok := strings.CutPrefix(section, `remote "`)
	if !ok {
		return "", false
	}
	name, ok := strings.CutSuffix(rest, `"`)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// WriteConfig rewrites the repository config file as a whole.
func (r *Repository) WriteConfig(cfg *Config) error {
	return writeConfigFile(r.configPath(), cfg)
}

func writeConfigFile(path string, cfg *Config) error {
	parser := configparser.New()

	if err := parser.AddSection("core"); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := parser.Set("core", "bare", fmt.Sprintf("%t", cfg.Bare)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	names := make([]string, 0, len(cfg.Remotes))
	for name := range cfg.Remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		section := fmt.Sprintf("remote %q", name)
		if err := parser.AddSection(section); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		if err := parser.Set(section, "url", cfg.Remotes[name]); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
	}

	if err := parser.SaveWithDelimiter(path, "="); err != nil {
		return fmt.Errorf("write config: save: %w", err)
	}
	return nil
}

// IsBare reports whether the repository has no working copy.
func (r *Repository) IsBare() bool {
	if r.WorkDir == "" {
		return true
	}
	cfg, err := r.ReadConfig()
	if err != nil {
		return false
	}
	return cfg.Bare
}

// AddRemote records a named remote URL. Adding an existing name errors.
func (r *Repository) AddRemote(name, url string) error {
	cfg, err := r.ReadConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Remotes[name]; ok {
		return fmt.Errorf("remote %s already exists", name)
	}
	cfg.Remotes[name] = url
	return r.WriteConfig(cfg)
}

// RemoteURL returns the configured URL for the given remote name.
func (r *Repository) RemoteURL(name string) (string, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return "", err
	}
	url, ok := cfg.Remotes[name]
	if !ok || strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("%s does not appear to be an enkelgit repository", name)
	}
	return url, nil
}
