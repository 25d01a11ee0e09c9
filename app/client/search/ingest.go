package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/textsplitter"
	"golang.org/x/sync/errgroup"
)

const (
	chunkSize     = 800
	chunkOverlap  = 100
	ingestWorkers = 4
)

// IndexDirectory splits every markdown/text file under dir into chunks and
// adds them to the index. Missing directory is not an error, the index just
// stays empty and retrieval degrades.
func (s *Index) IndexDirectory(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		slog.Warn("Knowledge directory does not exist, index will be empty", "dir", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read knowledge dir: %w", err)
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(ingestWorkers)

	var (
		mu    sync.Mutex
		total int
	)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".md" && ext != ".txt" {
			continue
		}

		name := entry.Name()
		path := filepath.Join(dir, name)

		group.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			chunks, err := splitter.SplitText(string(data))
			if err != nil {
				return fmt.Errorf("failed to split %s: %w", path, err)
			}

			docs := make([]Document, 0, len(chunks))
			for i, chunk := range chunks {
				chunk = strings.TrimSpace(chunk)
				if chunk == "" {
					continue
				}

				docs = append(docs, Document{
					ID:      fmt.Sprintf("%s#%d", name, i),
					Content: chunk,
					Metadata: map[string]string{
						"source": name,
					},
				})
			}

			if err := s.Add(groupCtx, docs); err != nil {
				return err
			}

			mu.Lock()
			total += len(docs)
			mu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	slog.Info("Indexed knowledge base", "dir", dir, "chunks", total)

	return nil
}
