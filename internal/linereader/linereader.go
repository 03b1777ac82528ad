// Package linereader feeds the lines of files or a stream to a callback,
// one at a time, without loading whole inputs into memory.
package linereader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nxadm/tail"

	"github.com/grokline/grokline-go/internal/safefile"
)

// StdinName is the source name that selects the stream passed to Read.
const StdinName = "-"

// MaxLineSize is the longest line accepted from a stream.
const MaxLineSize = 1 * 1024 * 1024

// Line is one input line without its terminator.
type Line struct {
	Source string // file path, or "-" for the stream
	Num    int    // 1-based line number within Source
	Text   string
}

// Handler is called for every line. Returning a non-nil error stops
// reading and is returned from the Read function unchanged.
type Handler func(Line) error

// Option configures a reader.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func applyOptions(opts []Option) *config {
	c := &config{logger: discardLogger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read reads every source in order. The source "-" reads from stdin; an
// empty source list reads stdin alone.
func Read(ctx context.Context, sources []string, stdin io.Reader, fn Handler, opts ...Option) error {
	if len(sources) == 0 {
		sources = []string{StdinName}
	}
	for _, src := range sources {
		var err error
		if src == StdinName {
			err = ReadStream(ctx, stdin, StdinName, fn, opts...)
		} else {
			err = ReadFile(ctx, src, fn, opts...)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadFile reads a regular file from start to end. It does not follow the
// file after reaching EOF.
func ReadFile(ctx context.Context, path string, fn Handler, opts ...Option) error {
	cfg := applyOptions(opts)

	f, _, err := safefile.OpenRegular(path)
	if err != nil {
		if errors.Is(err, safefile.ErrNotRegularFile) {
			return fmt.Errorf("%s: input must be a regular file", path)
		}
		return err
	}
	f.Close()

	t, err := tail.TailFile(path, tail.Config{
		Follow:    false,
		ReOpen:    false,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return err
	}
	cfg.logger.Debug("reading file", "path", path)

	num := 0
	for {
		if err := ctx.Err(); err != nil {
			_ = t.Stop()
			return err
		}
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return ctx.Err()
		case l, ok := <-t.Lines:
			if !ok {
				if err := t.Wait(); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				cfg.logger.Debug("finished file", "path", path, "lines", num)
				return nil
			}
			if l.Err != nil {
				_ = t.Stop()
				return fmt.Errorf("%s: %w", path, l.Err)
			}
			num++
			if err := fn(Line{Source: path, Num: num, Text: strings.TrimSuffix(l.Text, "\r")}); err != nil {
				_ = t.Stop()
				return err
			}
		}
	}
}

// ReadStream reads r until EOF. Lines longer than MaxLineSize fail with
// bufio.ErrTooLong.
func ReadStream(ctx context.Context, r io.Reader, source string, fn Handler, opts ...Option) error {
	cfg := applyOptions(opts)
	if r == nil {
		return errors.New("no input stream")
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	num := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		num++
		if err := fn(Line{Source: source, Num: num, Text: strings.TrimSuffix(sc.Text(), "\r")}); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	cfg.logger.Debug("finished stream", "source", source, "lines", num)
	return nil
}
