package offline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const assetTimeout = 30 * time.Second

// InstallObserver follows an install. Calls may come from several workers
// at once.
type InstallObserver interface {
	InstallStarted(total int)
	BytesRead(n int64)
	AssetDone(url string, err error)
}

type nopObserver struct{}

func (nopObserver) InstallStarted(int)      {}
func (nopObserver) BytesRead(int64)         {}
func (nopObserver) AssetDone(string, error) {}

type fetchedAsset struct {
	req    *http.Request
	status int
	header http.Header
	body   []byte
}

// fetchAssets downloads every url with at most workers requests in flight.
// The first failure cancels the rest: an install needs all of them.
func fetchAssets(ctx context.Context, client *http.Client, urls []string, workers int, obs InstallObserver) ([]fetchedAsset, error) {
	total := len(urls)
	obs.InstallStarted(total)

	if workers < 1 {
		workers = 1
	}
	if workers > total && total > 0 {
		workers = total
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]fetchedAsset, total)

	var errMu sync.Mutex
	var firstErr error
	failed := 0

	jobs := make(chan int)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for i := range jobs {
			a, err := fetchAsset(ctx, client, urls[i], obs.BytesRead)
			obs.AssetDone(urls[i], err)
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", urls[i], err)
				}
				failed++
				errMu.Unlock()
				cancel()
				continue
			}
			results[i] = a
		}
	}

	wg.Add(workers)
	for range workers {
		go worker()
	}

feed:
	for i := range urls {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}

	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("failed %d/%d assets: %w", failed, total, firstErr)
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func fetchAsset(ctx context.Context, client *http.Client, u string, progress func(n int64)) (fetchedAsset, error) {
	ctx, cancel := context.WithTimeout(ctx, assetTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fetchedAsset{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return fetchedAsset{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fetchedAsset{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := copyWithProgress(&buf, resp.Body, progress); err != nil {
		return fetchedAsset{}, err
	}

	// The stored request must outlive the install context.
	stored, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return fetchedAsset{}, err
	}

	return fetchedAsset{
		req:    stored,
		status: resp.StatusCode,
		header: resp.Header.Clone(),
		body:   buf.Bytes(),
	}, nil
}

// copyWithProgress reports each chunk as it is written.
func copyWithProgress(dst io.Writer, src io.Reader, progress func(n int64)) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	for {
		nr, er := src.Read(buf)

		if nr > 0 {
			nw, ew := dst.Write(buf[0:nr])

			if nw > 0 {
				total += int64(nw)
				if progress != nil {
					progress(int64(nw))
				}
			}

			if ew != nil {
				return total, ew
			}

			if nr != nw {
				return total, io.ErrShortWrite
			}
		}

		if er != nil {
			if er == io.EOF {
				break
			}
			return total, er
		}
	}

	return total, nil
}
