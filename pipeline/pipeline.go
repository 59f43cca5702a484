// Package pipeline builds the dictionaries, the NegEx lexicon, the tagger
// list and the labeling functions of a configuration, and runs them over a
// corpus.
package pipeline

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/revelaction/rwe/config"
	"github.com/revelaction/rwe/dictionary"
	"github.com/revelaction/rwe/label"
	"github.com/revelaction/rwe/lfs"
	"github.com/revelaction/rwe/match"
	"github.com/revelaction/rwe/negex"
	"github.com/revelaction/rwe/ngram"
	sent "github.com/revelaction/rwe/sentence"
	"github.com/revelaction/rwe/tagger"
	"go.uber.org/zap"
)

type Pipeline struct {
	Dictionaries map[string]dictionary.Dictionary
	NegEx        *negex.NegEx
	Taggers      []tagger.Tagger
	LFs          *label.Registry[*sent.Relation]

	// Relations are the relation layer names, in config order.
	Relations []string

	BlockSize int
	Workers   int

	logger  *zap.Logger
	metrics *label.Metrics
}

type Option func(*Pipeline)

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

func WithMetrics(m *label.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// New loads every dictionary and the lexicon of cfg and builds the tagger
// list in config order, always starting with a reset.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{Workers: cfg.Workers, logger: zap.NewNop()}
	for _, o := range opts {
		o(p)
	}

	var err error
	if p.BlockSize, err = cfg.Blocks(); err != nil {
		return nil, err
	}

	stopwords := dictionary.NewSet()
	for _, w := range cfg.Stopwords {
		stopwords.Add(strings.ToLower(w))
	}

	if p.Dictionaries, err = loadDictionaries(cfg, stopwords); err != nil {
		return nil, err
	}

	if p.NegEx, err = loadNegEx(cfg); err != nil {
		return nil, err
	}

	if p.LFs, err = lfs.Registry(cfg.LFs, p.NegEx); err != nil {
		return nil, err
	}

	roles, err := lfs.Roles(cfg.LFs)
	if err != nil {
		return nil, err
	}

	for _, r := range cfg.Relations {
		if missing := missingRoles(r.Args, roles); len(missing) > 0 {
			return nil, fmt.Errorf("%w: relation %q has no %s args, read by the %s labeling functions",
				config.ErrInvalid, r.Type, strings.Join(missing, ", "), cfg.LFs)
		}
		p.Relations = append(p.Relations, r.Type)
	}

	if p.Taggers, err = p.taggers(cfg, stopwords); err != nil {
		return nil, err
	}

	p.logger.Info("pipeline",
		zap.Int("dictionaries", len(p.Dictionaries)),
		zap.Int("negex_terms", p.NegEx.Len()),
		zap.Int("taggers", len(p.Taggers)),
		zap.Int("lfs", p.LFs.Len()))

	return p, nil
}

// missingRoles returns the roles not bound by args, in roles order.
func missingRoles(args, roles []string) []string {
	var missing []string
	for _, role := range roles {
		if !slices.Contains(args, role) {
			missing = append(missing, role)
		}
	}
	return missing
}

func loadDictionaries(cfg *config.Config, stopwords dictionary.Set) (map[string]dictionary.Dictionary, error) {
	dicts := map[string]dictionary.Dictionary{}
	for _, d := range cfg.Dictionaries {
		opts := []dictionary.LoadOption{dictionary.WithStopwords(stopwords), dictionary.WithMinLength(cfg.MinLength)}
		if d.IgnoreCase {
			opts = append(opts, dictionary.WithIgnoreCase())
		}

		set := dictionary.NewSet()
		if d.Path != "" {
			loaded, err := dictionary.Load(cfg.Resolve(d.Path), opts...)
			if err != nil {
				return nil, err
			}
			set = loaded
		}

		if len(d.Terms) > 0 {
			inline, err := dictionary.Read(strings.NewReader(strings.Join(d.Terms, "\n")), opts...)
			if err != nil {
				return nil, err
			}
			set.Add(inline.Terms()...)
		}

		dicts[d.Name] = set
	}
	return dicts, nil
}

func loadNegEx(cfg *config.Config) (*negex.NegEx, error) {
	if cfg.NegEx.Path == "" {
		return negex.New(nil), nil
	}

	path := cfg.Resolve(cfg.NegEx.Path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	c := cfg.NegEx.Columns
	terms, err := negex.LoadLexicon(f, negex.WithColumns(c[0], c[1], c[2]))
	if err != nil {
		return nil, fmt.Errorf("negex %s: %w", path, err)
	}

	return negex.New(terms), nil
}

func (p *Pipeline) taggers(cfg *config.Config, stopwords dictionary.Set) ([]tagger.Tagger, error) {
	names := make([]string, 0, len(p.Dictionaries))
	for name := range p.Dictionaries {
		names = append(names, name)
	}
	sort.Strings(names)

	targets := func(t []string) []string {
		if len(t) > 0 {
			return t
		}
		return names
	}

	out := []tagger.Tagger{tagger.Reset{}}
	for _, name := range cfg.Taggers {
		switch name {
		case config.TaggerSections:
			sw := dictionary.NewSet()
			for _, w := range cfg.Sections.Stopwords {
				sw.Add(strings.ToLower(w))
			}
			out = append(out, tagger.NewSectionHeader(cfg.Sections.MaxTokens, sw))

		case config.TaggerParent:
			out = append(out, tagger.NewParentSection(names...))

		case config.TaggerDictionary:
			m := match.NewMatcher(p.Dictionaries)
			m.MinLength = cfg.MinLength
			m.IgnoreCase = cfg.IgnoreCase
			m.Stopwords = stopwords

			var gopts []ngram.Option
			if cfg.SplitOn != "" {
				gopts = append(gopts, ngram.WithSplit(regexp.MustCompile(cfg.SplitOn)))
			}
			out = append(out, &tagger.Dictionary{Matcher: m, Generator: ngram.New(cfg.NGrams, gopts...)})

		case config.TaggerNegation:
			t := tagger.NewNegation(p.NegEx, targets(cfg.NegEx.Targets)...)
			t.Window = cfg.NegEx.Window
			t.Reduction = tagger.Reduction(cfg.NegEx.Reduction)
			out = append(out, t)

		case config.TaggerLaterality:
			t := tagger.NewLaterality(targets(cfg.Laterality.Targets)...)
			t.Window = cfg.Laterality.Window
			out = append(out, t)

		case config.TaggerHypothetical:
			t := tagger.NewHypothetical(targets(cfg.Hypothetical.Targets)...)
			t.Window = cfg.Hypothetical.Window
			out = append(out, t)

		case config.TaggerFamily:
			t := tagger.NewFamily(targets(cfg.Family.Targets)...)
			t.Window = cfg.Family.Window
			t.Reduction = tagger.Reduction(cfg.Family.Reduction)
			out = append(out, t)

		case config.TaggerDocTime:
			out = append(out, tagger.NewDocTime())

		case config.TaggerRelations:
			for _, r := range cfg.Relations {
				out = append(out, tagger.NewRelation(r.Type, r.Args...))
			}

		default:
			return nil, fmt.Errorf("%w: unknown tagger %q", config.ErrInvalid, name)
		}
	}

	return out, nil
}

// Tag runs the taggers over the document groups in parallel blocks.
// progress, if not nil, gets the number of documents of every tagged block.
func (p *Pipeline) Tag(groups [][]*sent.Document, progress func(int)) error {
	opts := []tagger.Option{tagger.WithWorkers(p.Workers), tagger.WithLogger(p.logger)}
	if progress != nil {
		opts = append(opts, tagger.WithProgress(progress))
	}

	_, err := tagger.NewServer(p.Taggers, opts...).Apply(groups, p.BlockSize)
	return err
}

// Label collects the candidates of the relation layer per document and
// applies the labeling functions. It returns the candidates and one matrix
// per document.
func (p *Pipeline) Label(docs []*sent.Document, relation string) ([][]*sent.Relation, []*label.Matrix, error) {
	groups := tagger.Candidates(docs, relation)

	opts := []label.Option{label.WithWorkers(p.Workers), label.WithLogger(p.logger)}
	if p.metrics != nil {
		opts = append(opts, label.WithMetrics(p.metrics))
	}

	ms, err := label.Apply(label.NewServer(opts...), p.LFs.LFs(), groups, p.BlockSize)
	if err != nil {
		return nil, nil, err
	}

	return groups, ms, nil
}
