// Package resolver implements the resolution pipeline: classify a selection,
// fan out to providers, aggregate partial results and cache them.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/drag2anki/backend/internal/cache"
	"github.com/drag2anki/backend/internal/domain"
	"github.com/drag2anki/backend/internal/provider"
)

type classifier interface {
	Classify(text string) (domain.Lang, domain.UnitKind)
	Reading(text string) string
}

type entryCache interface {
	Get(ctx context.Context, namespace, key string) (domain.ResolvedEntry, bool)
	Put(ctx context.Context, namespace, key string, entry domain.ResolvedEntry)
}

type dictProvider interface {
	Lookup(ctx context.Context, text string) (*provider.DictResult, error)
}

type charProvider interface {
	Fetch(ctx context.Context, symbol string) (*provider.CharResult, error)
}

type genProvider interface {
	GenerateWord(ctx context.Context, word string) (*provider.GenResult, error)
	GeneratePhrase(ctx context.Context, phrase string) (*provider.GenResult, error)
	GenerateChar(ctx context.Context, symbol string) (*provider.GenResult, error)
}

type translator interface {
	Translate(ctx context.Context, text, sourceLang string) (string, error)
}

type localizedGlosses interface {
	Lookup(symbol string) *domain.LocalizedGloss
}

// Service resolves selections into reading, gloss and per-kanji breakdown.
type Service struct {
	log        *slog.Logger
	classifier classifier
	cache      entryCache
	dict       dictProvider
	chars      charProvider
	gen        genProvider
	translate  translator
	glosses    localizedGlosses
	now        func() time.Time
}

// NewService creates a resolver service.
func NewService(
	logger *slog.Logger,
	cls classifier,
	entryCache entryCache,
	dict dictProvider,
	chars charProvider,
	gen genProvider,
	translate translator,
	glosses localizedGlosses,
) *Service {
	return &Service{
		log:        logger.With("service", "resolver"),
		classifier: cls,
		cache:      entryCache,
		dict:       dict,
		chars:      chars,
		gen:        gen,
		translate:  translate,
		glosses:    glosses,
		now:        time.Now,
	}
}

// Resolve normalizes and classifies text, then runs the branch matching its
// language and unit kind. Provider failures degrade to partial results; the
// only error a caller sees is validation of the input itself.
func (s *Service) Resolve(ctx context.Context, text string) (domain.ResolvedEntry, error) {
	normalized := domain.NormalizeText(text)
	if normalized == "" {
		return domain.ResolvedEntry{}, domain.NewValidationError("text", "required")
	}

	lang, unit := s.classifier.Classify(normalized)
	q := domain.Query{Text: text, Normalized: normalized, Unit: unit, Lang: lang}

	s.log.DebugContext(ctx, "resolving",
		slog.String("key", q.Normalized),
		slog.String("lang", string(lang)),
		slog.String("unit", string(unit)),
	)

	switch {
	case lang == domain.LangJapanese && unit == domain.UnitWord:
		return s.resolveJapaneseWord(ctx, q), nil
	case lang == domain.LangJapanese:
		return s.resolveJapanesePhrase(ctx, q), nil
	case unit == domain.UnitWord:
		return s.resolveForeignWord(ctx, q), nil
	default:
		return s.resolveForeignPhrase(ctx, q), nil
	}
}

func (s *Service) resolveJapaneseWord(ctx context.Context, q domain.Query) domain.ResolvedEntry {
	if entry, ok := s.cache.Get(ctx, cache.NamespaceWords, q.Normalized); ok {
		return entry
	}

	var (
		dictRes provider.Result[*provider.DictResult]
		genRes  provider.Result[*provider.GenResult]
		comps   []domain.ComponentInfo
		reading string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.dict.Lookup(gctx, q.Normalized)
		dictRes = settle(r, err)
		return nil
	})
	g.Go(func() error {
		r, err := s.gen.GenerateWord(gctx, q.Normalized)
		genRes = settle(r, err)
		return nil
	})
	g.Go(func() error {
		comps = s.resolveComponents(gctx, q.Normalized)
		return nil
	})
	g.Go(func() error {
		reading = s.classifier.Reading(q.Normalized)
		return nil
	})
	_ = g.Wait()

	s.logFailure(ctx, "jisho", q.Normalized, dictRes.Err)
	s.logFailure(ctx, "openai", q.Normalized, genRes.Err)

	entry := domain.ResolvedEntry{
		Key:        q.Normalized,
		Lang:       q.Lang,
		Components: comps,
		FetchedAt:  s.now(),
	}

	entry.Reading = firstNonEmpty(
		reading,
		dictReading(dictRes.OrZero()),
		genReading(genRes.OrZero()),
	)
	entry.Gloss = firstNonEmpty(
		dictGloss(dictRes.OrZero()),
		genMeaning(genRes.OrZero()),
	)

	s.cache.Put(ctx, cache.NamespaceWords, q.Normalized, entry)
	return entry
}

func (s *Service) resolveJapanesePhrase(ctx context.Context, q domain.Query) domain.ResolvedEntry {
	if entry, ok := s.cache.Get(ctx, cache.NamespacePhrases, q.Normalized); ok {
		return entry
	}

	var (
		transRes provider.Result[string]
		comps    []domain.ComponentInfo
		reading  string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.translate.Translate(gctx, q.Normalized, string(q.Lang))
		transRes = settle(r, err)
		return nil
	})
	g.Go(func() error {
		comps = s.resolveComponents(gctx, q.Normalized)
		return nil
	})
	g.Go(func() error {
		reading = s.classifier.Reading(q.Normalized)
		return nil
	})
	_ = g.Wait()

	s.logFailure(ctx, "deepl", q.Normalized, transRes.Err)

	gloss := transRes.OrZero()
	if gloss == "" {
		// Translation failed or produced nothing; ask the generative
		// provider for the whole phrase instead.
		if r, err := s.gen.GeneratePhrase(ctx, q.Normalized); err != nil {
			s.logFailure(ctx, "openai", q.Normalized, err)
		} else if r != nil {
			gloss = r.Meaning
			if reading == "" {
				reading = r.Reading
			}
		}
	}

	entry := domain.ResolvedEntry{
		Key:        q.Normalized,
		Reading:    reading,
		Gloss:      gloss,
		Lang:       q.Lang,
		Components: comps,
		FetchedAt:  s.now(),
	}

	s.cache.Put(ctx, cache.NamespacePhrases, q.Normalized, entry)
	return entry
}

func (s *Service) resolveForeignWord(ctx context.Context, q domain.Query) domain.ResolvedEntry {
	key := foreignKey(q)
	if entry, ok := s.cache.Get(ctx, cache.NamespaceWords, key); ok {
		return entry
	}

	entry := domain.ResolvedEntry{Key: key, Lang: q.Lang, FetchedAt: s.now()}

	if r, err := s.gen.GenerateWord(ctx, q.Normalized); err != nil {
		s.logFailure(ctx, "openai", key, err)
	} else if r != nil {
		entry.Reading = r.Reading
		entry.Gloss = r.Meaning
	}

	if entry.Gloss == "" {
		if tr, err := s.translate.Translate(ctx, q.Normalized, string(q.Lang)); err != nil {
			s.logFailure(ctx, "deepl", key, err)
		} else {
			entry.Gloss = tr
		}
	}

	s.cache.Put(ctx, cache.NamespaceWords, key, entry)
	return entry
}

func (s *Service) resolveForeignPhrase(ctx context.Context, q domain.Query) domain.ResolvedEntry {
	key := foreignKey(q)
	if entry, ok := s.cache.Get(ctx, cache.NamespacePhrases, key); ok {
		return entry
	}

	entry := domain.ResolvedEntry{Key: key, Lang: q.Lang, FetchedAt: s.now()}

	if tr, err := s.translate.Translate(ctx, q.Normalized, string(q.Lang)); err != nil {
		s.logFailure(ctx, "deepl", key, err)
	} else {
		entry.Gloss = tr
	}

	if entry.Gloss == "" {
		if r, err := s.gen.GeneratePhrase(ctx, q.Normalized); err != nil {
			s.logFailure(ctx, "openai", key, err)
		} else if r != nil {
			entry.Gloss = r.Meaning
		}
	}

	s.cache.Put(ctx, cache.NamespacePhrases, key, entry)
	return entry
}

// foreignKey prefixes non-Japanese cache keys so an English word can never
// shadow a Japanese one with the same spelling.
func foreignKey(q domain.Query) string {
	return string(q.Lang) + ":" + q.Normalized
}

func (s *Service) logFailure(ctx context.Context, name, key string, err error) {
	if err == nil {
		return
	}
	s.log.WarnContext(ctx, "provider failed",
		slog.String("provider", name),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}

func settle[T any](v T, err error) provider.Result[T] {
	if err != nil {
		return provider.Fail[T](err)
	}
	return provider.Ok(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func dictReading(r *provider.DictResult) string {
	if r == nil {
		return ""
	}
	return r.Reading
}

func genReading(r *provider.GenResult) string {
	if r == nil {
		return ""
	}
	return r.Reading
}

func genMeaning(r *provider.GenResult) string {
	if r == nil {
		return ""
	}
	return r.Meaning
}

// dictGloss joins the first few senses into a single display string.
func dictGloss(r *provider.DictResult) string {
	if r == nil || len(r.Senses) == 0 {
		return ""
	}

	const maxSenses = 3
	senses := r.Senses
	if len(senses) > maxSenses {
		senses = senses[:maxSenses]
	}

	out := ""
	for i, s := range senses {
		if len(s.Glosses) == 0 {
			continue
		}
		if i > 0 && out != "" {
			out += "; "
		}
		out += joinGlosses(s.Glosses)
	}
	return out
}

func joinGlosses(glosses []string) string {
	out := ""
	for i, g := range glosses {
		if i > 0 {
			out += ", "
		}
		out += g
	}
	return out
}
