// Package answer produces sourced, language-aware health answers.
package answer

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/arogyalabs/arogyabot/internal/model"
	"github.com/arogyalabs/arogyabot/internal/research"
)

const defaultMaxSources = 3

var ErrEmptyAnswer = errors.New("model returned an empty answer")

type Searcher interface {
	Search(ctx context.Context, query string, num int) ([]research.Result, error)
}

type Fetcher interface {
	PageText(ctx context.Context, url string) (string, error)
}

type Generator interface {
	Generate(ctx context.Context, systemMessage, prompt string) (string, error)
}

// ResearchCache is optional; a nil cache disables caching.
type ResearchCache interface {
	GetSources(ctx context.Context, lang, query string) ([]model.Source, bool, error)
	SetSources(ctx context.Context, lang, query string, sources []model.Source) error
	GetPageText(ctx context.Context, url string) (string, bool, error)
	SetPageText(ctx context.Context, url, text string) error
}

// Engine orchestrates the pipeline: search, filter, excerpt, prompt,
// generate, post-process.
type Engine struct {
	searcher   Searcher
	fetcher    Fetcher
	generator  Generator
	cache      ResearchCache
	maxSources int
}

func NewEngine(searcher Searcher, fetcher Fetcher, generator Generator, cache ResearchCache, maxSources int) *Engine {
	if maxSources <= 0 {
		maxSources = defaultMaxSources
	}
	return &Engine{
		searcher:   searcher,
		fetcher:    fetcher,
		generator:  generator,
		cache:      cache,
		maxSources: maxSources,
	}
}

// Answer returns the generated answer and the sources it was grounded
// on. history carries recent conversation turns for prompt context.
// Source collection failures degrade to a source-less answer rather
// than failing the question.
func (e *Engine) Answer(ctx context.Context, question, lang string, history []model.Message) (string, []model.Source, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil, errors.New("question is empty")
	}

	sources := e.collectSources(ctx, question, lang)

	prompt := BuildPrompt(question, sources, lang, history)
	raw, err := e.generator.Generate(ctx, SystemMessage, prompt)
	if err != nil {
		return "", nil, err
	}

	text := StripTrailingNumberedLinks(raw)
	if text == "" {
		return "", nil, ErrEmptyAnswer
	}
	return text, sources, nil
}

func (e *Engine) collectSources(ctx context.Context, question, lang string) []model.Source {
	if e.cache != nil {
		if cached, hit, err := e.cache.GetSources(ctx, lang, question); err == nil && hit {
			return cached
		}
	}

	results, err := e.searcher.Search(ctx, question+" health medical", e.maxSources*2)
	if err != nil {
		slog.Warn("source search failed, answering without sources", slog.String("error", err.Error()))
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	filtered := research.FilterTrusted(results, e.maxSources)
	if len(filtered) == 0 {
		slog.Debug("no trusted sources found, using general health results")
		filtered = research.FilterHealthKeyword(results, e.maxSources)
	}

	var sources []model.Source
	for _, r := range filtered {
		if r.Link == "" {
			continue
		}
		text := e.pageText(ctx, r.Link)
		if text == "" {
			continue
		}
		sources = append(sources, model.Source{
			URL:     r.Link,
			Title:   r.Title,
			Snippet: text,
		})
	}

	if e.cache != nil && len(sources) > 0 {
		if err := e.cache.SetSources(ctx, lang, question, sources); err != nil {
			slog.Debug("cache sources failed", slog.String("error", err.Error()))
		}
	}
	return sources
}

func (e *Engine) pageText(ctx context.Context, url string) string {
	if e.cache != nil {
		if cached, hit, err := e.cache.GetPageText(ctx, url); err == nil && hit {
			return cached
		}
	}

	text, err := e.fetcher.PageText(ctx, url)
	if err != nil {
		slog.Debug("fetch page text failed", slog.String("url", url), slog.String("error", err.Error()))
		return ""
	}

	if e.cache != nil && text != "" {
		_ = e.cache.SetPageText(ctx, url, text)
	}
	return text
}
