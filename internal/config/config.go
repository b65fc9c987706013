package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/atomicstack/controlbox/internal/app"
	"github.com/atomicstack/controlbox/internal/host"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	File     string
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const (
	envConfigFile           = "CONTROLBOX_CONFIG"
	envURL                  = "CONTROLBOX_URL"
	envToken                = "CONTROLBOX_TOKEN"
	envWidth                = "CONTROLBOX_WIDTH"
	envHeight               = "CONTROLBOX_HEIGHT"
	envShowFooter           = "CONTROLBOX_FOOTER"
	envVerbose              = "CONTROLBOX_VERBOSE"
	envTrace                = "CONTROLBOX_TRACE"
	envLogFile              = "CONTROLBOX_LOG_FILE"
	envStore                = "CONTROLBOX_STORE"
	envAllowLogout          = "CONTROLBOX_ALLOW_LOGOUT"
	envDefaultDomain        = "CONTROLBOX_DEFAULT_DOMAIN"
	envLockedDomain         = "CONTROLBOX_LOCKED_DOMAIN"
	envShowByDefault        = "CONTROLBOX_SHOW_BY_DEFAULT"
	envSticky               = "CONTROLBOX_STICKY"
	envXHRUserSearch        = "CONTROLBOX_XHR_USER_SEARCH"
	envXHRUserSearchURL     = "CONTROLBOX_XHR_USER_SEARCH_URL"
	envAuthentication       = "CONTROLBOX_AUTHENTICATION"
	envAnonymousJID         = "CONTROLBOX_ANONYMOUS_JID"
	envAllowContactRequests = "CONTROLBOX_ALLOW_CONTACT_REQUESTS"
)

const defaultURL = "ws://127.0.0.1:5290/bridge"

var (
	ErrSearchURLRequired    = errors.New("xhr-user-search requires xhr-user-search-url")
	ErrAnonymousJIDRequired = errors.New("anonymous authentication requires anonymous-jid")
)

// fileConfig mirrors the flag names in a yaml document. Values that are
// absent from the file keep their defaults.
type fileConfig struct {
	URL                  string `yaml:"url"`
	Token                string `yaml:"token"`
	Width                int    `yaml:"width"`
	Height               int    `yaml:"height"`
	Footer               bool   `yaml:"footer"`
	Verbose              bool   `yaml:"verbose"`
	Trace                bool   `yaml:"trace"`
	LogFile              string `yaml:"log-file"`
	Store                string `yaml:"store"`
	AllowLogout          bool   `yaml:"allow-logout"`
	DefaultDomain        string `yaml:"default-domain"`
	LockedDomain         string `yaml:"locked-domain"`
	ShowByDefault        bool   `yaml:"show-by-default"`
	Sticky               bool   `yaml:"sticky"`
	XHRUserSearch        bool   `yaml:"xhr-user-search"`
	XHRUserSearchURL     string `yaml:"xhr-user-search-url"`
	Authentication       string `yaml:"authentication"`
	AnonymousJID         string `yaml:"anonymous-jid"`
	AllowContactRequests bool   `yaml:"allow-contact-requests"`
}

func defaults() fileConfig {
	return fileConfig{
		URL:                  defaultURL,
		AllowLogout:          true,
		ShowByDefault:        true,
		Authentication:       string(host.AuthLogin),
		AllowContactRequests: true,
	}
}

// loadFile reads path over the defaults. An empty path returns the defaults.
func loadFile(path string) (fileConfig, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Flags win over
// environment variables, which win over the config file.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	path := configPath(args, envOrDefault(env, envConfigFile, ""))
	base, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("controlbox", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", path, "path to a yaml config file")
	bridgeURL := fs.String("url", envOrDefault(env, envURL, base.URL), "websocket url of the host bridge")
	token := fs.String("token", envOrDefault(env, envToken, base.Token), "bearer token presented to the bridge")
	width := fs.Int("width", envOrInt(env, envWidth, base.Width), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, base.Height), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, base.Footer), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, base.Trace), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, base.Verbose), "print success messages for actions")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, base.LogFile), "path to the log file")
	storePath := fs.String("store", envOrDefault(env, envStore, base.Store), "yaml file persisting the control box record (empty keeps it in memory)")
	allowLogout := fs.Bool("allow-logout", envOrBool(env, envAllowLogout, base.AllowLogout), "offer a logout action")
	defaultDomain := fs.String("default-domain", envOrDefault(env, envDefaultDomain, base.DefaultDomain), "domain appended to bare usernames")
	lockedDomain := fs.String("locked-domain", envOrDefault(env, envLockedDomain, base.LockedDomain), "domain forced onto every username")
	showByDefault := fs.Bool("show-by-default", envOrBool(env, envShowByDefault, base.ShowByDefault), "open the control box when no record says otherwise")
	sticky := fs.Bool("sticky", envOrBool(env, envSticky, base.Sticky), "keep the control box open at all times")
	xhrSearch := fs.Bool("xhr-user-search", envOrBool(env, envXHRUserSearch, base.XHRUserSearch), "search users over http when adding contacts")
	xhrSearchURL := fs.String("xhr-user-search-url", envOrDefault(env, envXHRUserSearchURL, base.XHRUserSearchURL), "user search endpoint")
	authentication := fs.String("authentication", envOrDefault(env, envAuthentication, base.Authentication), "login or anonymous")
	anonymousJID := fs.String("anonymous-jid", envOrDefault(env, envAnonymousJID, base.AnonymousJID), "address used for anonymous logins")
	allowRequests := fs.Bool("allow-contact-requests", envOrBool(env, envAllowContactRequests, base.AllowContactRequests), "offer the add-contact form")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	opts := host.Options{
		AllowLogout:             *allowLogout,
		DefaultDomain:           strings.TrimSpace(*defaultDomain),
		LockedDomain:            strings.TrimSpace(*lockedDomain),
		ShowControlBoxByDefault: *showByDefault,
		StickyControlBox:        *sticky,
		XHRUserSearch:           *xhrSearch,
		XHRUserSearchURL:        strings.TrimSpace(*xhrSearchURL),
		Authentication:          host.Authentication(strings.ToLower(strings.TrimSpace(*authentication))),
		AnonymousJID:            strings.TrimSpace(*anonymousJID),
		AllowContactRequests:    *allowRequests,
	}.WithDefaults()
	if opts.LockedDomain != "" {
		opts.DefaultDomain = ""
	}

	cfg := Config{
		App: app.Config{
			URL:        *bridgeURL,
			Token:      *token,
			Width:      *width,
			Height:     *height,
			ShowFooter: *footer,
			Verbose:    *verbose,
			StorePath:  *storePath,
			Options:    opts,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Features: Features{
			Verbose: *verbose,
		},
		File: path,
		Flags: map[string]string{
			"url":                    *bridgeURL,
			"width":                  strconv.Itoa(*width),
			"height":                 strconv.Itoa(*height),
			"footer":                 strconv.FormatBool(*footer),
			"trace":                  strconv.FormatBool(*trace),
			"verbose":                strconv.FormatBool(*verbose),
			"logFile":                *logFile,
			"store":                  *storePath,
			"allow-logout":           strconv.FormatBool(opts.AllowLogout),
			"default-domain":         opts.DefaultDomain,
			"locked-domain":          opts.LockedDomain,
			"show-by-default":        strconv.FormatBool(opts.ShowControlBoxByDefault),
			"sticky":                 strconv.FormatBool(opts.StickyControlBox),
			"xhr-user-search":        strconv.FormatBool(opts.XHRUserSearch),
			"xhr-user-search-url":    opts.XHRUserSearchURL,
			"authentication":         string(opts.Authentication),
			"anonymous-jid":          opts.AnonymousJID,
			"allow-contact-requests": strconv.FormatBool(opts.AllowContactRequests),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// configPath finds --config in args ahead of the full parse so the file can
// seed the flag defaults.
func configPath(args []string, fallback string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		switch {
		case name == "config" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(name, "config="):
			return strings.TrimPrefix(name, "config=")
		}
	}
	return fallback
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks the bridge url and the option combinations the control box
// cannot run with.
func Validate(cfg Config) error {
	u, err := url.Parse(cfg.App.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", cfg.App.URL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("url %q must use ws or wss", cfg.App.URL)
	}
	opts := cfg.App.Options
	switch opts.Authentication {
	case host.AuthLogin, host.AuthAnonymous:
	default:
		return fmt.Errorf("authentication must be %q or %q (got %q)", host.AuthLogin, host.AuthAnonymous, opts.Authentication)
	}
	if opts.Authentication == host.AuthAnonymous && opts.AnonymousJID == "" {
		return ErrAnonymousJIDRequired
	}
	if opts.XHRUserSearch && opts.XHRUserSearchURL == "" {
		return ErrSearchURLRequired
	}
	return nil
}
