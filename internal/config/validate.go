package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range (got %d)", c.Server.Port)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be > 0 (got %v)", c.Cache.TTL)
	}

	for name, raw := range map[string]string{
		"providers.jisho.base_url":    c.Providers.Jisho.BaseURL,
		"providers.kanjiapi.base_url": c.Providers.KanjiAPI.BaseURL,
		"providers.openai.base_url":   c.Providers.OpenAI.BaseURL,
		"providers.deepl.base_url":    c.Providers.DeepL.BaseURL,
		"anki.url":                    c.Anki.URL,
	} {
		if err := validateURL(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if c.Anki.WordField == "" || c.Anki.MeaningField == "" {
		return fmt.Errorf("anki.word_field and anki.meaning_field are required")
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
