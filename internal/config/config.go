package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config holds everything the daemon needs, loaded once at startup and
// treated as immutable afterwards.
type Config struct {
	// Controllers is the fixed list of hosts to monitor, in declaration order.
	Controllers []string `yaml:"controllers"`
	// ControllersFile optionally points at a plain text file with one host
	// per line (# comments and blank lines ignored). Entries are appended
	// after the inline list.
	ControllersFile string `yaml:"controllers_file"`

	PollInterval   time.Duration `yaml:"poll_interval"`   // default 30s
	AlertThreshold time.Duration `yaml:"alert_threshold"` // default 5m
	ProbeTimeout   time.Duration `yaml:"probe_timeout"`   // default 3s
	Concurrency    int           `yaml:"concurrency"`     // max in-flight probes per cycle

	Addr   string `yaml:"addr"`    // status API bind address
	LogDir string `yaml:"log_dir"` // rotated log directory

	// DatabaseURL selects the postgres history recorder when set; empty
	// means in-memory history. Overridable via DATABASE_URL.
	DatabaseURL string `yaml:"database_url"`

	Email Email `yaml:"email"`

	// Status API rate limiting (requests per minute per client IP).
	PublicRPM   int `yaml:"public_rpm"`
	PublicBurst int `yaml:"public_burst"`
}

// Email is the SMTP delivery configuration. All fields are required; the
// EMAIL_* environment variables override whatever the file provides.
type Email struct {
	Host string   `yaml:"host"`
	Port int      `yaml:"port"`
	User string   `yaml:"user"`
	Pass string   `yaml:"pass"`
	To   []string `yaml:"to"`
}

// Default returns the built-in defaults before any file or env is applied.
func Default() Config {
	return Config{
		PollInterval:   30 * time.Second,
		AlertThreshold: 5 * time.Minute,
		ProbeTimeout:   3 * time.Second,
		Concurrency:    8,
		Addr:           "127.0.0.1:8080",
		LogDir:         "logs",
		PublicRPM:      120,
		PublicBurst:    60,
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error when path is empty.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if cfg.ControllersFile != "" {
		hosts, err := ReadControllerList(cfg.ControllersFile)
		if err != nil {
			return cfg, err
		}
		cfg.Controllers = append(cfg.Controllers, hosts...)
	}

	cfg.applyEnv()
	return cfg, nil
}

// ReadControllerList parses a plain text host list, one host per line,
// skipping blank lines and lines starting with '#'.
func ReadControllerList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read controller list %s: %w", path, err)
	}
	defer f.Close()

	var hosts []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		hosts = append(hosts, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read controller list %s: %w", path, err)
	}
	return hosts, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("EMAIL_HOST"); v != "" {
		c.Email.Host = v
	}
	if v := os.Getenv("EMAIL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Email.Port = p
		}
	}
	if v := os.Getenv("EMAIL_USER"); v != "" {
		c.Email.User = v
	}
	if v := os.Getenv("EMAIL_PASS"); v != "" {
		c.Email.Pass = v
	}
	if v := os.Getenv("EMAIL_TO"); v != "" {
		c.Email.To = splitList(v)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every startup problem at once. Any error here is fatal:
// the monitor loop must not start on a bad configuration.
func (c *Config) Validate() error {
	var err error

	if len(c.Controllers) == 0 {
		err = multierr.Append(err, errors.New("no controllers configured"))
	}
	seen := make(map[string]struct{}, len(c.Controllers))
	for _, h := range c.Controllers {
		if h == "" {
			err = multierr.Append(err, errors.New("empty controller entry"))
			continue
		}
		if _, dup := seen[h]; dup {
			err = multierr.Append(err, fmt.Errorf("duplicate controller %q", h))
		}
		seen[h] = struct{}{}
	}

	if c.PollInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("poll_interval must be positive, got %v", c.PollInterval))
	}
	if c.AlertThreshold <= 0 {
		err = multierr.Append(err, fmt.Errorf("alert_threshold must be positive, got %v", c.AlertThreshold))
	}
	if c.ProbeTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("probe_timeout must be positive, got %v", c.ProbeTimeout))
	}
	if c.Concurrency < 1 {
		err = multierr.Append(err, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}

	err = multierr.Append(err, c.Email.validate())
	return err
}

func (e *Email) validate() error {
	missing := make([]string, 0, 5)
	if e.Host == "" {
		missing = append(missing, "EMAIL_HOST")
	}
	if e.Port == 0 {
		missing = append(missing, "EMAIL_PORT")
	}
	if e.User == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if e.Pass == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	if len(e.To) == 0 {
		missing = append(missing, "EMAIL_TO")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing email settings: %s", strings.Join(missing, ", "))
	}
	return nil
}
