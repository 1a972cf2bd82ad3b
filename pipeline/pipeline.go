// Package pipeline runs an import: it reads every document in the inbox,
// compiles the notes they carry, writes the configured outputs and finally
// moves the documents to the processed folder.
//
// A run is all or nothing. Any failure before the outputs are written
// leaves the inbox untouched and writes no output.
package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/notas/config"
	"github.com/rustyeddy/notas/internal/logging"
	"github.com/rustyeddy/notas/journal"
	"github.com/rustyeddy/notas/note"
	"github.com/rustyeddy/notas/parser"
	"github.com/rustyeddy/notas/pdftext"
	"github.com/rustyeddy/notas/pkg/id"
)

// Document is the page text of one input file.
type Document struct {
	Path  string
	Pages []string
}

// Result describes a finished run.
type Result struct {
	Run   journal.Run
	Notes []*note.CompiledNote
	// Moved lists the processed folder paths the documents were moved to.
	Moved []string
}

// Pipeline imports brokerage notes as configured.
type Pipeline struct {
	cfg       *config.Config
	resolver  parser.Resolver
	log       *slog.Logger
	extractor func(path string) (pdftext.Extractor, error)
	newID     func() string
	clock     func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithExtractor replaces the choice of page extractor per file.
func WithExtractor(fn func(path string) (pdftext.Extractor, error)) Option {
	return func(p *Pipeline) { p.extractor = fn }
}

// WithIDs replaces the run and trade ID generator.
func WithIDs(fn func() string) Option {
	return func(p *Pipeline) { p.newID = fn }
}

// WithClock replaces the clock stamping runs.
func WithClock(fn func() time.Time) Option {
	return func(p *Pipeline) { p.clock = fn }
}

// New returns a pipeline for cfg resolving tickers through r.
func New(cfg *config.Config, r parser.Resolver, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		resolver:  r,
		log:       slog.Default(),
		extractor: pdftext.ForPath,
		newID:     id.New,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Setup creates the inbox, processed and output folders.
func (p *Pipeline) Setup() error {
	dirs := []string{p.cfg.Folders.Inbox, p.cfg.Folders.Processed}
	for _, out := range p.outputs() {
		dirs = append(dirs, filepath.Dir(out))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("setup folders: %w", err)
		}
	}
	return nil
}

func (p *Pipeline) outputs() []string {
	o := p.cfg.Output
	var out []string
	for _, path := range []string{o.CSV, o.XLSX, o.SQLite, o.Org, o.Runs} {
		if path != "" {
			out = append(out, path)
		}
	}
	return out
}

// Scan lists the supported documents under the inbox, recursively, in
// lexical order.
func (p *Pipeline) Scan() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(p.cfg.Folders.Inbox, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !pdftext.Supported(path) {
			p.log.Debug("skipping unsupported file", "path", path)
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan inbox: %w", err)
	}
	return paths, nil
}

// Extract reads the pages of every path, at most cfg.Workers at a time.
// Documents come back in the order of paths.
func (p *Pipeline) Extract(ctx context.Context, paths []string) ([]Document, error) {
	docs := make([]Document, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.Workers, 1))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			e, err := p.extractor(path)
			if err != nil {
				return err
			}
			pages, err := e.Pages(ctx, path)
			if err != nil {
				return fmt.Errorf("extract %s: %w", path, err)
			}
			docs[i] = Document{Path: path, Pages: pages}
			p.log.DebugContext(ctx, "document extracted", "document", path, "pages", len(pages))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Compile segments and merges the documents in order and allocates every
// note's fees and withheld tax.
func (p *Pipeline) Compile(docs []Document) (*note.Batch, error) {
	b := note.NewBatch(p.resolver, note.WithLogger(p.log), note.WithIDs(p.newID))
	for _, d := range docs {
		if err := b.AddDocument(d.Path, d.Pages); err != nil {
			return nil, err
		}
	}
	if err := b.Allocate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Parse extracts and compiles paths without touching any folder or output.
func (p *Pipeline) Parse(ctx context.Context, paths []string) (*note.Batch, error) {
	docs, err := p.Extract(ctx, paths)
	if err != nil {
		return nil, err
	}
	return p.Compile(docs)
}

// Run imports everything in the inbox.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := p.newID()
	ctx = logging.WithRunID(ctx, runID)

	if err := p.Setup(); err != nil {
		return nil, err
	}
	paths, err := p.Scan()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		p.log.InfoContext(ctx, "inbox is empty", "inbox", p.cfg.Folders.Inbox)
		return &Result{Run: journal.NewRun(runID, p.clock(), nil, nil)}, nil
	}
	p.log.InfoContext(ctx, "documents found", "count", len(paths))

	b, err := p.Parse(ctx, paths)
	if err != nil {
		return nil, err
	}
	notes := b.Notes()
	run := journal.NewRun(runID, p.clock(), paths, notes)

	if err := p.write(notes, run); err != nil {
		return nil, err
	}
	p.log.InfoContext(ctx, "outputs written",
		"notes", run.Notes, "trades", run.Trades, "fees", run.Fees.String())

	moved, err := p.move(paths)
	if err != nil {
		return nil, err
	}
	p.log.InfoContext(ctx, "documents moved", "count", len(moved), "processed", p.cfg.Folders.Processed)

	return &Result{Run: run, Notes: notes, Moved: moved}, nil
}

// write produces every configured output. The row files go first; the
// database, which also records the run, goes last.
func (p *Pipeline) write(notes []*note.CompiledNote, run journal.Run) error {
	o := p.cfg.Output

	var files []journal.Journal
	if o.CSV != "" {
		files = append(files, journal.NewCSV(o.CSV))
	}
	if o.XLSX != "" {
		files = append(files, journal.NewXLSX(o.XLSX))
	}
	if o.Org != "" {
		files = append(files, journal.NewOrg(o.Org))
	}
	for _, j := range files {
		if err := journal.Write(j, notes); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	if o.SQLite != "" {
		db, err := journal.NewSQLite(o.SQLite)
		if err != nil {
			return fmt.Errorf("open journal database: %w", err)
		}
		if err := db.RecordRun(run); err != nil {
			_ = db.Close()
			return fmt.Errorf("record run: %w", err)
		}
		if err := journal.Write(db, notes); err != nil {
			return fmt.Errorf("write journal database: %w", err)
		}
	}

	if o.Runs != "" {
		if err := run.AppendOrg(o.Runs); err != nil {
			return fmt.Errorf("append run report: %w", err)
		}
	}
	return nil
}

// move relocates each document under the processed folder, keeping its
// path relative to the inbox.
func (p *Pipeline) move(paths []string) ([]string, error) {
	moved := make([]string, 0, len(paths))
	for _, src := range paths {
		rel, err := filepath.Rel(p.cfg.Folders.Inbox, src)
		if err != nil {
			return moved, err
		}
		dst := filepath.Join(p.cfg.Folders.Processed, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return moved, err
		}
		if err := os.Rename(src, dst); err != nil {
			return moved, fmt.Errorf("move %s: %w", src, err)
		}
		moved = append(moved, dst)
	}
	return moved, nil
}
