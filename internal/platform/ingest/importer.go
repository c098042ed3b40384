package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"github.com/doctorwapp/provider-api/internal/domain/provider"
)

// DefaultBatchSize is the number of providers written per transaction.
const DefaultBatchSize = 500

const readBatch = 4096

// Options tune an import.
type Options struct {
	BatchSize int
	// NewProgress builds the progress reporter once the row count is known.
	NewProgress func(total int64) Progress
	Logger      zerolog.Logger
}

// Result summarizes a finished import.
type Result struct {
	Rows int64
	BatchStats
}

// CountRows returns the number of rows in a fixture file.
func CountRows(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open parquet: %w", err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[Row](f)
	defer reader.Close()
	return reader.NumRows(), nil
}

// ImportFile reads the Parquet file at path and writes its providers through w.
func ImportFile(ctx context.Context, path string, w BatchWriter, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[Row](f)
	defer reader.Close()

	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	progress := Discard
	if opts.NewProgress != nil {
		progress = opts.NewProgress(reader.NumRows())
	}
	defer progress.Wait()

	var (
		res   = &Result{}
		asm   = newAssembler()
		batch = make([]*provider.ProviderDetail, 0, opts.BatchSize)
		buf   = make([]Row, readBatch)
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		stats, err := w.WriteBatch(ctx, batch)
		if err != nil {
			return err
		}
		res.add(stats)
		opts.Logger.Debug().
			Int("providers", res.Providers).
			Int64("rows", res.Rows).
			Msg("import batch written")
		batch = batch[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		// Decoded rows are retained by the assembler, so never decode into
		// previously used values.
		clear(buf)
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			done, err := asm.add(&buf[i])
			if err != nil {
				return res, fmt.Errorf("row %d: %w", res.Rows+int64(i)+1, err)
			}
			if done != nil {
				batch = append(batch, done)
				if len(batch) >= opts.BatchSize {
					if err := flush(); err != nil {
						return res, err
					}
				}
			}
		}
		res.Rows += int64(n)
		progress.IncrBy(n)

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return res, fmt.Errorf("read parquet: %w", readErr)
		}
	}

	if last := asm.flush(); last != nil {
		batch = append(batch, last)
	}
	if err := flush(); err != nil {
		return res, err
	}
	return res, nil
}
