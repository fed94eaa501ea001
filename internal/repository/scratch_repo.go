package repository

import (
	"context"
	"fmt"
)

// ScratchRepo holds loose UI scratch values, currently only the last plant
// search keyword.
type ScratchRepo struct {
	store KV
}

func NewScratchRepo(store KV) *ScratchRepo {
	return &ScratchRepo{store: store}
}

var _ Scratch = (*ScratchRepo)(nil)

func (r *ScratchRepo) SaveSearch(ctx context.Context, keyword string) error {
	if err := r.store.Set(ctx, keySearch, keyword); err != nil {
		return fmt.Errorf("save search keyword: %w", err)
	}
	return nil
}

func (r *ScratchRepo) LastSearch(ctx context.Context) (string, error) {
	var keyword string
	if _, err := r.store.Get(ctx, keySearch, &keyword); err != nil {
		return "", fmt.Errorf("load search keyword: %w", err)
	}
	return keyword, nil
}
