package driver

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"docsniff/internal/config"
	"docsniff/internal/diag"
	"docsniff/internal/fix"
	"docsniff/internal/lexer"
	"docsniff/internal/observ"
	"docsniff/internal/sniff"
	"docsniff/internal/source"
	"docsniff/internal/token"

	"go.uber.org/zap"
)

// Options управляет проверкой и исправлением файлов.
type Options struct {
	Config *config.Config
	// MaxDiagnostics overrides Config.MaxDiagnostics when positive.
	MaxDiagnostics int
	// Fix runs the fix loop and writes changed files back.
	Fix bool
	// DryRun keeps fixed content in memory only.
	DryRun        bool
	EnableTimings bool
	Cache         *DiskCache
	Logger        *zap.Logger
	Observer      PhaseObserver
	// Jobs bounds CheckDir concurrency; <= 0 means GOMAXPROCS.
	Jobs int
	// Progress is called after each file of CheckDir, from worker goroutines.
	Progress func(Progress)
}

func (o *Options) config() *config.Config {
	if o.Config == nil {
		o.Config = config.Default()
	}
	return o.Config
}

func (o *Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return o.config().MaxDiagnostics
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// FileResult is the outcome of one file.
type FileResult struct {
	Path    string
	FileSet *source.FileSet
	// File is the final version: after fixes when Fix was set.
	File    *source.File
	Bag     *diag.Bag
	Changed bool
	Passes  int
	Applied int
	Cached  bool
	Timing  *observ.Report
}

// CheckFile loads path and checks it; with Options.Fix the file is fixed and rewritten.
func CheckFile(path string, opts *Options) (*FileResult, error) {
	if opts == nil {
		opts = &Options{}
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	res, err := check(fs, fs.Get(id), opts)
	if err != nil {
		return res, err
	}
	if opts.Fix && res.Changed && !opts.DryRun {
		orig := fs.Get(id)
		if err := fix.WriteFile(path, restoreEncoding(res.File.Content, orig.Flags)); err != nil {
			res.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{File: res.File.ID}, err.Error()))
			return res, err
		}
		opts.logger().Info("file fixed", zap.String("path", path), zap.Int("fixes", res.Applied))
	}
	return res, nil
}

// CheckSource checks in-memory content registered under name. Nothing is written.
func CheckSource(name string, content []byte, opts *Options) (*FileResult, error) {
	if opts == nil {
		opts = &Options{}
	}
	fs := source.NewFileSet()
	return check(fs, fs.Get(fs.AddVirtual(name, content)), opts)
}

func check(fs *source.FileSet, file *source.File, opts *Options) (*FileResult, error) {
	cfg := opts.config()
	log := opts.logger().With(zap.String("path", file.Path))

	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	started := make(map[string]time.Time, 4)
	begin := func(name string) int {
		started[name] = time.Now()
		if opts.Observer != nil {
			opts.Observer(PhaseEvent{Path: file.Path, Name: name, Status: PhaseStart})
		}
		if timer == nil {
			return -1
		}
		return timer.Begin(name)
	}
	end := func(idx int, name, note string) {
		if timer != nil && idx >= 0 {
			timer.End(idx, note)
		}
		if opts.Observer != nil {
			opts.Observer(PhaseEvent{Path: file.Path, Name: name, Status: PhaseEnd, Elapsed: time.Since(started[name])})
		}
	}

	res := &FileResult{Path: file.Path, FileSet: fs, File: file}
	runner := sniff.Default(cfg.Settings).WithLogger(log)

	// кеш только для проверки: исправление всегда пересчитывается
	var key config.Digest
	useCache := opts.Cache != nil && !opts.Fix
	if useCache {
		idx := begin("cache")
		key = CacheKey(file.Content, cfg)
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil {
			log.Warn("cache read failed", zap.Error(err))
		}
		end(idx, "cache", fmt.Sprintf("hit=%t", hit))
		if hit {
			res.Bag = payloadToBag(&payload, file.ID, opts.maxDiagnostics())
			res.Cached = true
			return finish(res, timer), nil
		}
	}

	var fixNote *diag.Diagnostic
	// применённые исправления, по одной записи на коммит
	fixed := diag.NewBag(0)
	if opts.Fix {
		idx := begin("fix")
		pass := func(s *token.Stream, f *fix.Fixer) error {
			return runner.Pass(&diag.BagReporter{Bag: fixed, Stream: s, Fix: true})(s, f)
		}
		loop, err := fix.Loop(file.Content, tokenizer(fs, file.Path), pass, fix.LoopOptions{Logger: log})
		res.Passes, res.Applied = loop.Passes, loop.Applied
		end(idx, "fix", fmt.Sprintf("%d passes, %d fixes", loop.Passes, loop.Applied))
		switch {
		case err == nil:
		case errors.Is(err, fix.ErrOscillation):
			d := diag.New(diag.SevWarning, diag.FixOscillation, source.Span{}, err.Error())
			fixNote = &d
		case errors.Is(err, fix.ErrPassLimit):
			d := diag.New(diag.SevWarning, diag.FixPassLimit, source.Span{}, err.Error())
			fixNote = &d
		default:
			return res, fmt.Errorf("fix %s: %w", file.Path, err)
		}
		if !bytes.Equal(loop.Content, file.Content) {
			res.Changed = true
			res.File = fs.Get(fs.Add(file.Path, loop.Content, file.Flags|source.FileVirtual))
		}
	}

	bag := diag.NewBag(opts.maxDiagnostics())
	idx := begin("lex")
	stream := lexer.Tokenize(res.File, lexer.Options{Reporter: &lexer.ReporterAdapter{Bag: bag}})
	end(idx, "lex", fmt.Sprintf("%d tokens", stream.Len()))

	idx = begin("sniff")
	n := runner.Report(stream, &diag.BagReporter{Bag: bag, Stream: stream})
	end(idx, "sniff", fmt.Sprintf("%d violations", n))

	for _, d := range fixed.Items() {
		if d.Fixed {
			bag.Add(d)
		}
	}
	if fixNote != nil {
		fixNote.Primary.File = res.File.ID
		bag.Add(*fixNote)
	}
	bag.Sort()
	res.Bag = bag

	if useCache {
		if err := opts.Cache.Put(key, bagToPayload(file.Path, key, bag)); err != nil {
			log.Warn("cache write failed", zap.Error(err))
		}
	}
	log.Debug("file checked", zap.Int("diagnostics", bag.Len()), zap.Bool("changed", res.Changed))
	return finish(res, timer), nil
}

func finish(res *FileResult, timer *observ.Timer) *FileResult {
	if timer == nil {
		return res
	}
	report := timer.Report()
	res.Timing = &report
	appendTimingDiagnostic(res.Bag, timingPayload{Kind: "file", Path: res.Path, TotalMS: report.TotalMS, Phases: report.Phases})
	return res
}

// restoreEncoding re-applies the BOM and CRLF line endings Load normalised away.
func restoreEncoding(content []byte, flags source.FileFlags) []byte {
	if flags&source.FileNormalizedCRLF != 0 {
		content = bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
	}
	if flags&source.FileHadBOM != 0 {
		content = append([]byte{0xEF, 0xBB, 0xBF}, content...)
	}
	return content
}
