// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package dataset

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/reeldeck/reeldeck/internal/logging"
	"github.com/reeldeck/reeldeck/internal/metrics"
)

// requiredFiles are the CSV files the service needs from the archive.
var requiredFiles = []string{"movies.csv", "ratings.csv", "links.csv"}

// maxCSVSize caps a single extracted CSV to guard against a malformed
// or hostile archive. The small dataset's largest file is ~2.5 MB.
const maxCSVSize = 256 << 20

// Ensure makes sure the dataset CSV files exist under dir, downloading
// and extracting the archive from url if any are missing. Files
// already present are kept; the download is skipped entirely when all
// required files exist.
func Ensure(ctx context.Context, url, dir string) error {
	if present, missing := filesPresent(dir); present {
		logging.Debug().Str("dir", dir).Msg("dataset files present, skipping download")
		return nil
	} else {
		logging.Info().
			Str("url", url).
			Str("dir", dir).
			Strs("missing", missing).
			Msg("downloading dataset archive")
	}

	start := time.Now()
	if err := downloadAndExtract(ctx, url, dir); err != nil {
		return err
	}
	metrics.DatasetDownloadDuration.Observe(time.Since(start).Seconds())

	if present, missing := filesPresent(dir); !present {
		return fmt.Errorf("archive extracted but files still missing: %v", missing)
	}

	logging.Info().
		Dur("elapsed", time.Since(start)).
		Msg("dataset download complete")
	return nil
}

// filesPresent reports whether all required CSVs exist under dir and
// lists the ones that do not.
func filesPresent(dir string) (bool, []string) {
	var missing []string
	for _, name := range requiredFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	return len(missing) == 0, missing
}

func downloadAndExtract(ctx context.Context, url, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create dataset dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "dataset-*.zip")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("dataset download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dataset download failed: unexpected status %d", resp.StatusCode)
	}

	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		return fmt.Errorf("dataset download failed mid-transfer: %w", err)
	}
	logging.Debug().Int64("bytes", size).Msg("archive downloaded")

	return extractArchive(tmp.Name(), dir)
}

// extractArchive pulls the required CSVs out of the zip, flattening
// the archive's internal directory (e.g. ml-latest-small/movies.csv
// becomes <dir>/movies.csv).
func extractArchive(archivePath, dir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = r.Close() }()

	wanted := make(map[string]bool, len(requiredFiles))
	for _, name := range requiredFiles {
		wanted[name] = true
	}

	for _, f := range r.File {
		base := filepath.Base(f.Name)
		if !wanted[base] || f.FileInfo().IsDir() {
			continue
		}
		if err := extractFile(f, filepath.Join(dir, base)); err != nil {
			return fmt.Errorf("failed to extract %s: %w", base, err)
		}
		delete(wanted, base)
	}

	if len(wanted) > 0 {
		names := make([]string, 0, len(wanted))
		for name := range wanted {
			names = append(names, name)
		}
		return fmt.Errorf("archive missing required files: %v", names)
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, io.LimitReader(src, maxCSVSize))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}
