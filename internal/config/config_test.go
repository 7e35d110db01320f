package config

import (
	"os"
	"testing"
	"time"
)

const sampleConfig = `
chat:
  greeting: Ready when you are.
  reply_delay: 250ms
responder:
  provider: openai
  responses: ["Keep going!"]
llm:
  base_url: https://api.example.com
  api_key: dummy
  model: gpt-4o
server:
  host: 127.0.0.1
  port: "9090"
log:
  level: debug
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString(body); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()
	return tmp.Name()
}

// TestLoad_File verifies that Load unmarshals every section from $CONFIG_PATH.
func TestLoad_File(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, sampleConfig))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Chat.Greeting != "Ready when you are." {
		t.Fatalf("unexpected greeting: %q", cfg.Chat.Greeting)
	}
	if cfg.Chat.ReplyDelay != 250*time.Millisecond {
		t.Fatalf("unexpected reply delay: %s", cfg.Chat.ReplyDelay)
	}
	if cfg.Responder.Provider != ProviderOpenAI {
		t.Fatalf("unexpected provider: %s", cfg.Responder.Provider)
	}
	if len(cfg.Responder.Responses) != 1 || cfg.Responder.Responses[0] != "Keep going!" {
		t.Fatalf("unexpected responses: %v", cfg.Responder.Responses)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Fatalf("unexpected model: %s", cfg.LLM.Model)
	}
	if got := cfg.Server.Addr(); got != "127.0.0.1:9090" {
		t.Fatalf("unexpected addr: %s", got)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.Log.Level)
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Chat.Greeting != DefaultGreeting {
		t.Fatalf("unexpected greeting: %q", cfg.Chat.Greeting)
	}
	if cfg.Chat.ReplyDelay != 1500*time.Millisecond {
		t.Fatalf("unexpected reply delay: %s", cfg.Chat.ReplyDelay)
	}
	if cfg.Responder.Provider != ProviderCanned {
		t.Fatalf("unexpected provider: %s", cfg.Responder.Provider)
	}
	if cfg.Transcript.Enabled {
		t.Fatalf("transcript should be disabled by default")
	}
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COACH_CHAT_REPLY_DELAY", "20ms")
	t.Setenv("COACH_SERVER_PORT", "7070")

	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Chat.ReplyDelay != 20*time.Millisecond {
		t.Fatalf("env override not applied: %s", cfg.Chat.ReplyDelay)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("env override not applied: %s", cfg.Server.Port)
	}
}

func TestLoadFrom_MissingExplicitFile(t *testing.T) {
	if _, err := LoadFrom(t.TempDir() + "/nope.yaml"); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown provider": "responder:\n  provider: magic\n",
		"openai no key":    "responder:\n  provider: openai\n",
		"bad log level":    "log:\n  level: loud\n",
		"negative delay":   "chat:\n  reply_delay: -1s\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(writeConfig(t, body)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
