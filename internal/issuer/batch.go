package issuer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dharsanguruparan/BlobGrant/internal/sas"
)

// maxConcurrentProbes bounds the existence checks issued at once in the
// checked batch path.
const maxConcurrentProbes = 8

// dedupePaths drops blank entries and collapses case-insensitive duplicates,
// keeping the last spelling seen. Order of first appearance is preserved.
func dedupePaths(paths []string) []string {
	seen := make(map[string]int, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		key := strings.ToLower(p)
		if idx, ok := seen[key]; ok {
			out[idx] = p
			continue
		}
		seen[key] = len(out)
		out = append(out, p)
	}
	return out
}

// BlobSASURLs issues a blob grant for every distinct non-blank path without
// consulting storage. All grants share one validity window. Paths that
// differ only in case collapse to a single entry, last spelling wins.
func (i *Issuer) BlobSASURLs(container string, paths []string, perms sas.BlobPermissions, validity time.Duration) (map[string]string, error) {
	start, expiry, err := i.grantInputs(container, perms, validity)
	if err != nil {
		return nil, err
	}
	distinct := dedupePaths(paths)
	urls := make(map[string]string, len(distinct))
	for _, p := range distinct {
		u, err := i.signBlobURL(container, p, perms, start, expiry)
		if err != nil {
			return nil, err
		}
		urls[p] = u
	}
	return urls, nil
}

// ExistingBlobSASURLs is the checked variant of BlobSASURLs: the container
// must exist, and only paths whose blob exists receive a grant. Missing
// blobs are not an error; they come back in skipped so the caller can see
// what was left out. Existence probes run concurrently; a probe failure or
// context cancellation aborts the whole batch.
func (i *Issuer) ExistingBlobSASURLs(ctx context.Context, container string, paths []string, perms sas.BlobPermissions, validity time.Duration) (urls map[string]string, skipped []string, err error) {
	start, expiry, err := i.grantInputs(container, perms, validity)
	if err != nil {
		return nil, nil, err
	}
	distinct := dedupePaths(paths)

	ok, err := i.account.ContainerExists(ctx, container)
	if err != nil {
		return nil, nil, fmt.Errorf("check container %q: %w", container, err)
	}
	if !ok {
		return nil, nil, fmt.Errorf("container %q: %w", container, ErrContainerNotFound)
	}

	// One result slot per path: each goroutine writes only its own index, so
	// no lock guards the collection.
	exists := make([]bool, len(distinct))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProbes)
	for idx, p := range distinct {
		idx, p := idx, p
		g.Go(func() error {
			found, err := i.account.BlobExists(gctx, container, p)
			if err != nil {
				return fmt.Errorf("check blob %q: %w", p, err)
			}
			exists[idx] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	urls = make(map[string]string, len(distinct))
	for idx, p := range distinct {
		if !exists[idx] {
			skipped = append(skipped, p)
			continue
		}
		u, err := i.signBlobURL(container, p, perms, start, expiry)
		if err != nil {
			return nil, nil, err
		}
		urls[p] = u
	}
	return urls, skipped, nil
}
