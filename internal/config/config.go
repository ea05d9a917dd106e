// Package config loads run settings from defaults, an optional config file,
// .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/lorenzotomasdiez/groupchat/internal/backend"
	"github.com/lorenzotomasdiez/groupchat/internal/discussion"
	"github.com/lorenzotomasdiez/groupchat/internal/persona"
)

// EnvPrefix prefixes every environment override, e.g. GROUPCHAT_ROUNDS.
const EnvPrefix = "GROUPCHAT"

// Mixed assigns each persona its own provider and model. Any other Provider
// value puts every persona on that single provider.
const Mixed = "mixed"

// ErrNoAssignment is returned when a persona has no backend assignment.
var ErrNoAssignment = errors.New("no backend assignment")

// keyEnv maps providers to the environment variables holding their keys.
var keyEnv = map[backend.Kind]string{
	backend.KindGroq:        "GROQ_API_KEY",
	backend.KindGoogle:      "GOOGLE_API_KEY",
	backend.KindHuggingFace: "HUGGINGFACE_API_KEY",
	backend.KindOpenRouter:  "OPENROUTER_API_KEY",
	backend.KindOpenAI:      "OPENAI_API_KEY",
	backend.KindAnthropic:   "ANTHROPIC_API_KEY",
}

// Assignment binds a persona to a provider and model.
type Assignment struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
}

// Ollama holds the local daemon settings.
type Ollama struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config is the resolved run configuration.
type Config struct {
	Provider      string                `mapstructure:"provider"`
	Rounds        int                   `mapstructure:"rounds"`
	Synthesizer   bool                  `mapstructure:"synthesizer"`
	Summary       bool                  `mapstructure:"summary"`
	OutputDir     string                `mapstructure:"output_dir"`
	LogLevel      string                `mapstructure:"log_level"`
	LogFile       string                `mapstructure:"log_file"`
	LogRedact     []string              `mapstructure:"log_redact"`
	Timeout       time.Duration         `mapstructure:"timeout"`
	Endpoints     map[string]string     `mapstructure:"endpoints"`
	Ollama        Ollama                `mapstructure:"ollama"`
	Keys          map[string]string     `mapstructure:"keys"`
	Assignments   map[string]Assignment `mapstructure:"personas"`
	Temperatures  map[string]float64    `mapstructure:"temperatures"`
	DefaultModels map[string]string     `mapstructure:"default_models"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", Mixed)
	v.SetDefault("rounds", discussion.DefaultRounds)
	v.SetDefault("synthesizer", true)
	v.SetDefault("summary", true)
	v.SetDefault("output_dir", "output")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")
	v.SetDefault("log_redact", []string{})
	v.SetDefault("timeout", 60*time.Second)
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.timeout", 180*time.Second)

	assignments := map[string]Assignment{
		persona.Logical:     {Provider: "ollama", Model: "llama3.2"},
		persona.Skeptical:   {Provider: "ollama", Model: "mistral"},
		persona.Synthesizer: {Provider: "ollama", Model: "phi3"},
		persona.Creative:    {Provider: "groq", Model: "llama-3.3-70b-versatile"},
		persona.Practical:   {Provider: "groq", Model: "qwen/qwen3-32b"},
	}
	for id, a := range assignments {
		v.SetDefault("personas."+id+".provider", a.Provider)
		v.SetDefault("personas."+id+".model", a.Model)
		v.SetDefault("personas."+id+".endpoint", "")
	}

	temperatures := map[string]float64{
		persona.Logical:     0.3,
		persona.Creative:    0.8,
		persona.Skeptical:   0.5,
		persona.Practical:   0.4,
		persona.Synthesizer: 0.3,
	}
	for id, temp := range temperatures {
		v.SetDefault("temperatures."+id, temp)
	}

	models := map[backend.Kind]string{
		backend.KindOllama:      "llama3.2",
		backend.KindGroq:        "llama-3.1-8b-instant",
		backend.KindGoogle:      "gemini-1.5-flash",
		backend.KindHuggingFace: "mistralai/Mistral-7B-Instruct-v0.3",
		backend.KindOpenAI:      "gpt-4o-mini",
		backend.KindAnthropic:   "claude-3-5-haiku-latest",
		backend.KindOpenRouter:  "auto",
	}
	for kind, model := range models {
		v.SetDefault("default_models."+string(kind), model)
		v.SetDefault("endpoints."+string(kind), "")
	}
}

// Load resolves the configuration. path names an optional YAML, JSON or TOML
// file; an empty path skips the file layer. Environment variables win over
// the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for kind, env := range keyEnv {
		if err := v.BindEnv("keys."+string(kind), env); err != nil {
			return nil, fmt.Errorf("config: binding %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise only fail mid-run.
func (c *Config) Validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("config: %w: rounds must be >= 1, got %d", discussion.ErrConfigInvalid, c.Rounds)
	}
	if c.Provider != Mixed && !knownProvider(c.Provider) {
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	for id, a := range c.Assignments {
		if !knownProvider(a.Provider) {
			return fmt.Errorf("config: persona %s: unknown provider %q", id, a.Provider)
		}
	}
	for id, temp := range c.Temperatures {
		if temp < 0 || temp > 2 {
			return fmt.Errorf("config: persona %s: temperature %v out of range [0, 2]", id, temp)
		}
	}
	return nil
}

func knownProvider(name string) bool {
	for _, k := range backend.Kinds() {
		if string(k) == strings.ToLower(name) {
			return true
		}
	}
	return false
}

// BackendSpec resolves the backend of persona id: provider from the
// assignment (or the single Provider), model and endpoint falling back to the
// provider defaults, timeout and API key from the provider settings.
func (c *Config) BackendSpec(id string) (backend.Spec, error) {
	var a Assignment
	if c.Provider != "" && c.Provider != Mixed {
		a = Assignment{Provider: c.Provider}
	} else {
		var ok bool
		if a, ok = c.Assignments[id]; !ok {
			return backend.Spec{}, fmt.Errorf("config: %w for persona %q", ErrNoAssignment, id)
		}
	}

	kind := backend.Kind(strings.ToLower(a.Provider))
	spec := backend.Spec{
		Kind:     kind,
		Model:    a.Model,
		Endpoint: a.Endpoint,
		APIKey:   c.Keys[string(kind)],
		Timeout:  c.Timeout,
	}
	if spec.Model == "" {
		spec.Model = c.DefaultModels[string(kind)]
	}
	if spec.Endpoint == "" {
		spec.Endpoint = c.Endpoints[string(kind)]
	}
	if kind == backend.KindOllama {
		if spec.Endpoint == "" {
			spec.Endpoint = c.Ollama.BaseURL
		}
		spec.Timeout = c.Ollama.Timeout
	}
	return spec, nil
}

// Temperature returns the configured temperature of persona id, or fallback.
func (c *Config) Temperature(id string, fallback float64) float64 {
	if t, ok := c.Temperatures[id]; ok {
		return t
	}
	return fallback
}

// Personas returns the built-in personas with configured temperatures and
// backends applied.
func (c *Config) Personas() ([]persona.Persona, error) {
	builtin := persona.Builtin()
	for i := range builtin {
		builtin[i].Temperature = c.Temperature(builtin[i].ID, builtin[i].Temperature)
	}
	return persona.Bind(builtin, c.BackendSpec)
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment. Variables
// already set are left alone and a missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("config: loading %s: %w", path, err)
	}
	return nil
}
