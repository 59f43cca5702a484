package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/revelaction/rwe/label"
	"github.com/revelaction/rwe/pipeline"
	"github.com/revelaction/rwe/render"
	sent "github.com/revelaction/rwe/sentence"
	"github.com/revelaction/rwe/stat"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
)

const manifestName = "manifest.json"

// Manifest describes the label matrices of one labeling run.
type Manifest struct {
	RunID    string    `json:"run_id"`
	Created  time.Time `json:"created"`
	Relation string    `json:"relation"`

	// LFs are the labeling function names in column order.
	LFs   []string       `json:"lfs"`
	Files []ManifestFile `json:"files"`
}

type ManifestFile struct {
	Doc        string `json:"doc"`
	Path       string `json:"path"`
	Candidates int    `json:"candidates"`
	NNZ        int    `json:"nnz"`
	Blake3     string `json:"blake3"`
}

var fileNameReplacer = strings.NewReplacer("/", "_", `\`, "_", " ", "_")

// labelCommand tags the corpus, labels the candidates of the relation and
// prints the LF summary. With an output dir, every document gets a Matrix
// Market file, listed in the run manifest.
func labelCommand(opts LabelOptions, ui UI) error {
	runID := uuid.New().String()

	cfg, logger, err := loadConfig(opts.CommonOptions)
	if err != nil {
		return err
	}
	logger = logger.With(zap.String("run", runID))
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	p, err := pipeline.New(cfg, pipeline.WithLogger(logger), pipeline.WithMetrics(label.NewMetrics(reg)))
	if err != nil {
		return err
	}

	rel, err := relation(p, opts.Relation)
	if err != nil {
		return err
	}

	docs, err := loadDocs(opts.DocPath, ui)
	if err != nil {
		return err
	}

	if err := tagDocs(p, docs, ui); err != nil {
		return err
	}

	start := time.Now()
	groups, ms, err := p.Label(docs, rel)
	if err != nil {
		return err
	}

	names := p.LFs.Names()
	summary, err := stat.Summarize(names, ms...)
	if err != nil {
		return err
	}

	logger.Info("labeled",
		zap.String("relation", rel),
		zap.Int("docs", len(docs)),
		zap.Int("candidates", summary.Rows),
		zap.Int("lfs", len(names)),
		zap.Duration("elapsed", time.Since(start)))

	if opts.JSON {
		jr := render.NewJSONRenderer(ui.Out)
		for i, cs := range groups {
			if err := jr.RenderVotes(cs, names, ms[i]); err != nil {
				return err
			}
		}
	} else {
		if err := summary.Write(ui.Out); err != nil {
			return err
		}
	}

	if opts.OutDir != "" {
		m := Manifest{RunID: runID, Created: time.Now().UTC(), Relation: rel, LFs: names}
		if err := writeMatrices(opts.OutDir, &m, docs, ms); err != nil {
			return err
		}
		logger.Info("wrote label matrices", zap.String("dir", opts.OutDir), zap.Int("files", len(m.Files)))
	}

	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, reg); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	return nil
}

// writeMatrices writes ms[i], the matrix of docs[i], to dir and the manifest
// with the blake3 digest of every file.
func writeMatrices(dir string, m *Manifest, docs []*sent.Document, ms []*label.Matrix) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for i, doc := range docs {
		name := fmt.Sprintf("%05d_%s.mtx", i, fileNameReplacer.Replace(doc.Name))
		digest, err := writeMatrix(filepath.Join(dir, name), ms[i])
		if err != nil {
			return fmt.Errorf("doc %s: %w", doc.Name, err)
		}

		rows, _ := ms[i].Shape()
		m.Files = append(m.Files, ManifestFile{
			Doc:        doc.Name,
			Path:       name,
			Candidates: rows,
			NNZ:        ms[i].NNZ(),
			Blake3:     digest,
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, manifestName), append(data, '\n'), 0o644)
}

func writeMatrix(path string, m *label.Matrix) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	h := blake3.New()
	if err := m.WriteMatrixMarket(io.MultiWriter(f, h)); err != nil {
		f.Close()
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
