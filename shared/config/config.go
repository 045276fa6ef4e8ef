package config

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// mockPlaceholder marks a directory URL that was never filled in after
// deployment. Such a URL switches the portal to the built-in mock directory.
const mockPlaceholder = "REPLACE_WITH"

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Env           string    `yaml:"env"`
	Log           Log       `yaml:"log"`
	HTTP          HTTP      `yaml:"http"`
	SecureCookies bool      `yaml:"secure_cookies"`
	Directory     Directory `yaml:"directory"`
	Session       Session   `yaml:"session"`
	Report        Report    `yaml:"report"`
	Pricing       Pricing   `yaml:"pricing"`
	Payment       Payment   `yaml:"payment"`
	CORS          CORS      `yaml:"cors"`
	RateLimit     RateLimit `yaml:"rate_limit"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type HTTP struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type Directory struct {
	Timeout     time.Duration `yaml:"timeout"` // whole-request budget for one directory call
	Mock        bool          `yaml:"mock"`
	MockLatency time.Duration `yaml:"mock_latency"`
}

type Session struct {
	IdleTTL       time.Duration `yaml:"idle_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type Report struct {
	EmbedURL string `yaml:"embed_url"`
	Title    string `yaml:"title"`
}

type Pricing struct {
	Amount string `yaml:"amount"`
	Period string `yaml:"period"`
}

type Payment struct {
	QRImage string `yaml:"qr_image"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type RateLimit struct {
	FormsPerSecond float64       `yaml:"forms_per_second"` // per client IP
	FormBurst      int           `yaml:"form_burst"`
	Expiration     time.Duration `yaml:"expiration"`
}

type Private struct {
	DirectoryURL string `yaml:"directory_url"`
}

// DirectoryURL is the spreadsheet-automation endpoint. Kept private because
// the deployment URL is the only thing guarding the roster.
func (c *Config) DirectoryURL() string {
	return c.private.DirectoryURL
}

// UseMockDirectory reports whether the portal should answer from the
// built-in mock instead of calling a real endpoint.
func (c *Config) UseMockDirectory() bool {
	return c.Public.Directory.Mock ||
		c.private.DirectoryURL == "" ||
		strings.Contains(c.private.DirectoryURL, mockPlaceholder)
}

func (p *Public) applyDefaults() {
	if p.Env == "" {
		p.Env = "production"
	}
	if p.Log.Level == "" {
		p.Log.Level = "info"
	}
	if p.HTTP.Port == 0 {
		p.HTTP.Port = 8081
	}
	if p.HTTP.ReadTimeout == 0 {
		p.HTTP.ReadTimeout = 5 * time.Second
	}
	if p.HTTP.WriteTimeout == 0 {
		p.HTTP.WriteTimeout = 45 * time.Second
	}
	if p.Directory.Timeout == 0 {
		p.Directory.Timeout = 30 * time.Second
	}
	if p.Directory.MockLatency == 0 {
		p.Directory.MockLatency = 800 * time.Millisecond
	}
	if p.Session.IdleTTL == 0 {
		p.Session.IdleTTL = 12 * time.Hour
	}
	if p.Session.SweepInterval == 0 {
		p.Session.SweepInterval = 5 * time.Minute
	}
	if p.Pricing.Amount == "" {
		p.Pricing = Pricing{Amount: "RM30", Period: "/month"}
	}
	if p.Payment.QRImage == "" {
		p.Payment.QRImage = "/static/maybank-qr.svg"
	}
	if p.Report.Title == "" {
		p.Report.Title = "StockDetailsAnalysis"
	}
	if p.RateLimit.FormsPerSecond == 0 {
		p.RateLimit.FormsPerSecond = 1
	}
	if p.RateLimit.FormBurst == 0 {
		p.RateLimit.FormBurst = 5
	}
	if p.RateLimit.Expiration == 0 {
		p.RateLimit.Expiration = time.Hour
	}
}

func loadPath(configPath string, output interface{}) error {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.UnmarshalStrict(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// Load reads public.yaml and private.yaml from configFolder. A missing
// private.yaml is allowed and leaves the portal on the mock directory.
func Load(configFolder string) (*Config, error) {
	var public Public
	if err := loadPath(path.Join(configFolder, "public.yaml"), &public); err != nil {
		return nil, err
	}
	public.applyDefaults()

	var private Private
	privatePath := path.Join(configFolder, "private.yaml")
	if _, err := os.Stat(privatePath); err == nil {
		if err := loadPath(privatePath, &private); err != nil {
			return nil, err
		}
	}
	if env := os.Getenv("DIRECTORY_URL"); env != "" {
		private.DirectoryURL = env
	}

	return &Config{Public: public, private: private}, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err)
	}
	return cfg
}

// NewForTest builds a config without touching the filesystem.
func NewForTest(public Public, directoryURL string) *Config {
	public.applyDefaults()
	return &Config{Public: public, private: Private{DirectoryURL: directoryURL}}
}
