package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mind-engage/qbank/internal/db"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// DefaultBank is the name of the bank configured through DB_DRIVER/DB_DSN.
const DefaultBank = "default"

// User is an account allowed to log in. PassHash is a bcrypt hash.
type User struct {
	Name     string `yaml:"name"`
	PassHash string `yaml:"pass_hash"`
	Role     string `yaml:"role"`
}

type Config struct {
	Mode     Mode
	HTTPAddr string

	DataDir string
	Banks   map[string]db.Location

	AuthRequired bool
	HMACSecret   string
	Users        []User

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

// CORSOrigins returns the allowed origins for the current mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func (c Config) User(name string) (User, bool) {
	for _, u := range c.Users {
		if u.Name == name {
			return u, true
		}
	}
	return User{}, false
}

// fileConfig is the optional YAML overlay named by CONFIG_FILE.
type fileConfig struct {
	HTTPAddr string                 `yaml:"http_addr"`
	DataDir  string                 `yaml:"data_dir"`
	Banks    map[string]db.Location `yaml:"banks"`
	Users    []User                 `yaml:"users"`
}

// FromEnv loads .env (if present), the environment and then CONFIG_FILE.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	driver, err := db.ParseDriver(os.Getenv("DB_DRIVER"))
	if err != nil {
		return Config{}, fmt.Errorf("config: DB_DRIVER: %w", err)
	}
	dataDir := envOr("DATA_DIR", "./data")
	dsn := os.Getenv("DB_DSN")
	if dsn == "" && driver == db.DriverSQLite {
		dsn = filepath.Join(dataDir, "questions.db")
	}

	cfg := Config{
		Mode:         mode,
		HTTPAddr:     envOr("HTTP_ADDR", ":8080"),
		DataDir:      dataDir,
		Banks:        map[string]db.Location{},
		AuthRequired: envBool("AUTH_REQUIRED", mode == ModeOnline),
		HMACSecret:   envOr("AUTH_HMAC_SECRET", "dev-secret-change-me"),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", ""),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
	}
	if dsn != "" {
		cfg.Banks[DefaultBank] = db.Location{Driver: driver, DSN: dsn}
	}
	if h := os.Getenv("ADMIN_PASS_HASH"); h != "" {
		cfg.Users = append(cfg.Users, User{Name: envOr("ADMIN_USER", "admin"), PassHash: h, Role: "admin"})
	}
	if h := os.Getenv("VIEWER_PASS_HASH"); h != "" {
		cfg.Users = append(cfg.Users, User{Name: envOr("VIEWER_USER", "viewer"), PassHash: h, Role: "viewer"})
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	if cfg.AuthRequired && len(cfg.Users) == 0 {
		return Config{}, fmt.Errorf("config: AUTH_REQUIRED is set but no users are configured")
	}
	return cfg, nil
}

// LoadFile overlays a YAML file. Banks and users it declares replace entries
// of the same name.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	if err := yaml.NewDecoder(f).Decode(&fc); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	if fc.HTTPAddr != "" {
		c.HTTPAddr = fc.HTTPAddr
	}
	if fc.DataDir != "" {
		c.DataDir = fc.DataDir
	}
	if c.Banks == nil {
		c.Banks = map[string]db.Location{}
	}
	for name, loc := range fc.Banks {
		d, err := db.ParseDriver(string(loc.Driver))
		if err != nil {
			return fmt.Errorf("config: bank %s: %w", name, err)
		}
		loc.Driver = d
		c.Banks[name] = loc
	}
	for _, u := range fc.Users {
		if u.Role == "" {
			u.Role = "editor"
		}
		replaced := false
		for i := range c.Users {
			if c.Users[i].Name == u.Name {
				c.Users[i], replaced = u, true
			}
		}
		if !replaced {
			c.Users = append(c.Users, u)
		}
	}
	return nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
