package pipeline

import (
	"context"
	"sync"
	"time"
)

// DownloadBatch runs the pipeline for every URL under the configured
// worker count and returns one Result per distinct input URL. Per-item
// failures are recorded in the map and never cancel sibling items; the
// returned error is reserved for configuration problems detected before
// dispatch.
func (p *Pipeline) DownloadBatch(ctx context.Context, urls []string) (map[string]Result, error) {
	// Deduplicate so no two workers ever operate on the same artifact
	// path within one batch.
	seen := make(map[string]bool, len(urls))
	var distinct []string
	for _, u := range urls {
		if !seen[u] {
			seen[u] = true
			distinct = append(distinct, u)
		}
	}

	p.logger.InfoWithFields("starting batch download", map[string]interface{}{
		"urls":    len(distinct),
		"workers": p.workers,
	})

	jobs := make(chan string)
	resultQueue := make(chan Result, len(distinct))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for rawURL := range jobs {
				resultQueue <- p.runItem(ctx, rawURL, workerID)
			}
		}(i)
	}

	go func() {
		for _, rawURL := range distinct {
			jobs <- rawURL
		}
		close(jobs)
		wg.Wait()
		close(resultQueue)
	}()

	results := make(map[string]Result, len(distinct))
	failures := 0
	for result := range resultQueue {
		if !result.OK() {
			failures++
		}
		results[result.URL] = result
	}

	p.logger.InfoWithFields("batch download finished", map[string]interface{}{
		"urls":     len(distinct),
		"failures": failures,
	})

	return results, nil
}

// runItem executes one URL on a worker and reports the outcome
func (p *Pipeline) runItem(ctx context.Context, rawURL string, workerID int) Result {
	start := time.Now()

	checksum, fetched, err := p.downloadImage(ctx, rawURL)
	result := Result{
		URL:      rawURL,
		Checksum: checksum,
		Err:      err,
		Fetched:  fetched,
		Duration: time.Since(start),
	}

	if err != nil {
		p.logger.ErrorWithFields("item failed", map[string]interface{}{
			"worker_id": workerID,
			"url":       rawURL,
			"error":     err.Error(),
			"duration":  result.Duration,
		})
		return result
	}

	p.logger.DebugWithFields("item completed", map[string]interface{}{
		"worker_id": workerID,
		"url":       rawURL,
		"checksum":  checksum,
		"fetched":   fetched,
		"duration":  result.Duration,
	})

	return result
}
