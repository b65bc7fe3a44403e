// Package reference finds links mentioned in a conversation and resolves display metadata for them.
package reference

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/cchalm/convo/internal/transcript"
)

// Source records where a reference came from
type Source string

const (
	SourceCLI          Source = "cli"
	SourceConversation Source = "conversation"
)

// Reference is a resolved link shown in the references section of a document
type Reference struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Channel  string `json:"channel,omitempty"`
	Duration string `json:"duration,omitempty"`
	Source   Source `json:"source"`
}

// Resolver recognizes one family of URLs and looks up metadata for them
type Resolver interface {
	// Identify returns the canonical form of a URL and a key identifying the linked resource, or
	// ok=false if the resolver does not handle the URL
	Identify(url string) (canonical, key string, ok bool)
	// Resolve fetches metadata for a canonical URL
	Resolve(ctx context.Context, canonical string) (Reference, error)
}

var urlRE = regexp.MustCompile(`https?://[^\s<>()\[\]"'` + "`" + `]+`)

// Collector gathers references from command line arguments and conversation text
type Collector struct {
	resolvers []Resolver
	cache     Cache // optional
	logger    *zap.Logger
}

// NewCollector creates a collector that tries resolvers in order
func NewCollector(logger *zap.Logger, resolvers ...Resolver) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{resolvers: resolvers, logger: logger}
}

// WithCache makes the collector reuse earlier successful lookups. Failed lookups are not cached.
func (c *Collector) WithCache(cache Cache) *Collector {
	c.cache = cache
	return c
}

type candidate struct {
	resolver  Resolver
	canonical string
	key       string
}

func (c *Collector) identify(url string) (candidate, bool) {
	for _, r := range c.resolvers {
		if canonical, key, ok := r.Identify(url); ok {
			return candidate{resolver: r, canonical: canonical, key: key}, true
		}
	}
	return candidate{}, false
}

// Collect returns command line references first, then references found in the conversation that
// were not already given. Command line URLs no resolver recognizes are kept verbatim.
func (c *Collector) Collect(ctx context.Context, turns []transcript.Turn, cliRefs []string) []Reference {
	var refs []Reference
	seen := map[string]bool{}

	for _, url := range cliRefs {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		cand, ok := c.identify(url)
		if !ok {
			refs = append(refs, Reference{URL: url, Title: url, Source: SourceCLI})
			continue
		}
		if seen[cand.key] {
			continue
		}
		seen[cand.key] = true
		refs = append(refs, c.resolve(ctx, cand, SourceCLI))
	}

	for _, url := range ExtractURLs(turns) {
		cand, ok := c.identify(url)
		if !ok || seen[cand.key] {
			continue
		}
		seen[cand.key] = true
		refs = append(refs, c.resolve(ctx, cand, SourceConversation))
	}

	return refs
}

func (c *Collector) resolve(ctx context.Context, cand candidate, source Source) Reference {
	if cached := c.cached(cand.key); cached != nil {
		cached.Source = source
		return *cached
	}

	ref, err := cand.resolver.Resolve(ctx, cand.canonical)
	if err != nil {
		c.logger.Debug("failed to resolve reference, using bare URL",
			zap.String("url", cand.canonical), zap.Error(err))
		ref = Reference{URL: cand.canonical, Title: cand.canonical}
	} else if c.cache != nil {
		if err := c.cache.Set(cand.key, ref); err != nil {
			c.logger.Warn("failed to cache reference", zap.String("key", cand.key), zap.Error(err))
		}
	}
	ref.Source = source
	return ref
}

func (c *Collector) cached(key string) *Reference {
	if c.cache == nil {
		return nil
	}
	ref, err := c.cache.Get(key)
	if err != nil {
		c.logger.Warn("failed to read cached reference", zap.String("key", key), zap.Error(err))
		return nil
	}
	return ref
}

// ExtractURLs returns every URL in the turns' paragraphs, in order of appearance
func ExtractURLs(turns []transcript.Turn) []string {
	var urls []string
	for _, turn := range turns {
		for _, para := range turn.Paragraphs {
			for _, url := range urlRE.FindAllString(para, -1) {
				urls = append(urls, strings.TrimRight(url, ".,;:!?"))
			}
		}
	}
	return urls
}
