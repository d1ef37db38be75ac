package friendship

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Service is the Repository plus operations that fan out over several
// queries.
type Service struct {
	*Repository
	concurrency int
}

func NewService(repo *Repository, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{Repository: repo, concurrency: concurrency}
}

// MutualFriendCountsFor computes the pair count between userID and each id
// in otherIDs, at most s.concurrency queries at a time. The first failure
// cancels the rest.
func (s *Service) MutualFriendCountsFor(ctx context.Context, userID string, otherIDs []string) (map[string]int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	var mu sync.Mutex
	counts := make(map[string]int, len(otherIDs))
	for _, otherID := range otherIDs {
		g.Go(func() error {
			n, err := s.MutualFriendCount(ctx, userID, otherID)
			if err != nil {
				return err
			}
			mu.Lock()
			counts[otherID] = n
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}
