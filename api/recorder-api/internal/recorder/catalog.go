// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_recorder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
)

const catalogFile = "samples.csv"

var catalogHeader = []string{"filename", "target", "category", "fold"}

type catalogEntry struct {
	Filename string
	Category string
	Fold     int
}

// catalog indexes saved takes by category and fold. When a directory is
// given the index is mirrored to samples.csv inside it.
type catalog struct {
	mu      sync.RWMutex
	path    string
	entries []catalogEntry
}

func openCatalog(dir string) (*catalog, error) {
	c := &catalog{}
	if dir == "" {
		return c, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create samples directory: %w", err)
	}
	c.path = filepath.Join(dir, catalogFile)

	f, err := os.Open(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return c, c.writeHeader()
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(catalogHeader)
	for line := 0; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("corrupt catalog %s: %w", c.path, err)
		}
		if line == 0 {
			continue
		}
		fold, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, fmt.Errorf("corrupt catalog %s line %d: %w", c.path, line+1, err)
		}
		c.entries = append(c.entries, catalogEntry{Filename: record[0], Category: record[2], Fold: fold})
	}
	return c, nil
}

func (c *catalog) writeHeader() error {
	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	_ = w.Write(catalogHeader)
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *catalog) add(entry catalogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.path != "" {
		f, err := os.OpenFile(c.path, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		w := csv.NewWriter(f)
		_ = w.Write([]string{entry.Filename, "-1", entry.Category, strconv.Itoa(entry.Fold)})
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	c.entries = append(c.entries, entry)
	return nil
}

func (c *catalog) contains(filename string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries {
		if e.Filename == filename {
			return true
		}
	}
	return false
}

// table counts takes per category in fold, most frequent first and ties
// broken by category name.
func (c *catalog) table(fold int) []TableRow {
	c.mu.RLock()
	counts := map[string]int{}
	for _, e := range c.entries {
		if e.Fold == fold {
			counts[e.Category]++
		}
	}
	c.mu.RUnlock()

	rows := make([]TableRow, 0, len(counts))
	for category, count := range counts {
		rows = append(rows, TableRow{Category: category, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}
