package resolver

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/drag2anki/backend/internal/cache"
	"github.com/drag2anki/backend/internal/domain"
)

const unsupportedCharacter = "(unsupported character)"

// resolveComponents resolves every distinct kanji in text concurrently.
// Order follows first appearance in the text.
func (s *Service) resolveComponents(ctx context.Context, text string) []domain.ComponentInfo {
	kanji := domain.KanjiRunes(text)
	if len(kanji) == 0 {
		return nil
	}

	comps := make([]domain.ComponentInfo, len(kanji))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range kanji {
		i, symbol := i, string(r)
		g.Go(func() error {
			comps[i] = s.resolveComponent(gctx, symbol)
			return nil
		})
	}
	_ = g.Wait()

	return comps
}

// resolveComponent walks the per-character fallback chain: cache, character
// API, hanja dataset, generative provider, static placeholder. Placeholders
// are never cached so the chain reruns for them next time.
func (s *Service) resolveComponent(ctx context.Context, symbol string) domain.ComponentInfo {
	if entry, ok := s.cache.Get(ctx, cache.NamespaceKanji, symbol); ok {
		if len(entry.Components) > 0 {
			return entry.Components[0]
		}
	}

	localized := s.glosses.Lookup(symbol)

	charRes, err := s.chars.Fetch(ctx, symbol)
	s.logFailure(ctx, "kanjiapi", symbol, err)
	if charRes != nil {
		info := domain.ComponentInfo{
			Symbol:      symbol,
			Meanings:    charRes.Meanings,
			OnReadings:  charRes.OnReadings,
			KunReadings: charRes.KunReadings,
			Localized:   localized,
		}
		s.cacheComponent(ctx, info)
		return info
	}

	if localized != nil {
		info := domain.ComponentInfo{Symbol: symbol, Localized: localized}
		s.cacheComponent(ctx, info)
		return info
	}

	if r, err := s.gen.GenerateChar(ctx, symbol); err != nil {
		s.logFailure(ctx, "openai", symbol, err)
	} else if r != nil && r.Meaning != "" {
		info := domain.ComponentInfo{Symbol: symbol, Meanings: []string{r.Meaning}}
		if r.Reading != "" {
			info.KunReadings = []string{r.Reading}
		}
		s.cacheComponent(ctx, info)
		return info
	}

	return domain.ComponentInfo{Symbol: symbol, Meanings: []string{unsupportedCharacter}}
}

// cacheComponent stores one component as a single-component entry in the
// kanji namespace. Gloss and Reading are filled from the component so the
// entry passes the non-empty check for the shared tier.
func (s *Service) cacheComponent(ctx context.Context, info domain.ComponentInfo) {
	gloss := strings.Join(info.Meanings, ", ")
	if gloss == "" && info.Localized != nil {
		gloss = info.Localized.Meaning
	}

	entry := domain.ResolvedEntry{
		Key:        info.Symbol,
		Reading:    strings.Join(append(append([]string{}, info.OnReadings...), info.KunReadings...), " "),
		Gloss:      gloss,
		Lang:       domain.LangJapanese,
		Components: []domain.ComponentInfo{info},
		FetchedAt:  s.now(),
	}
	s.cache.Put(ctx, cache.NamespaceKanji, info.Symbol, entry)
}
