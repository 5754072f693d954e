package service

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/llm/offline"
)

// concurrencyCritic считает одновременно выполняемые вызовы
type concurrencyCritic struct {
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (c *concurrencyCritic) CritiqueImage(_ context.Context, req CritiqueRequest) (*domain.Critique, error) {
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		cur := c.maxSeen.Load()
		if n <= cur || c.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return &domain.Critique{CritiqueID: req.ImagePath}, nil
}

func TestBatchService_OrderAndErrors(t *testing.T) {
	good := writeTestImage(t, "good.png", 40, 40)
	other := writeTestImage(t, "other.png", 60, 30)
	missing := filepath.Join(t.TempDir(), "missing.png")

	critic := NewCriticService(CriticServiceDeps{Oracle: offline.New()})
	svc := NewBatchService(BatchServiceDeps{Critic: critic, Concurrency: 2})

	result := svc.Critique(context.Background(), []BatchItem{
		{Filename: "good.png", Path: good},
		{Filename: "missing.png", Path: missing},
		{Filename: "other.png", Path: other},
	}, nil)

	if result.Total != 3 || result.Successful != 2 {
		t.Errorf("Total=%d Successful=%d, want 3/2", result.Total, result.Successful)
	}

	wantNames := []string{"good.png", "missing.png", "other.png"}
	for i, name := range wantNames {
		if result.Results[i].Filename != name {
			t.Errorf("result %d filename = %q, want %q", i, result.Results[i].Filename, name)
		}
	}
	if result.Results[1].Error == "" || result.Results[1].Critique != nil {
		t.Errorf("missing file result = %+v", result.Results[1])
	}
	if result.Results[0].Critique == nil || result.Results[0].Critique.AdURL != good {
		t.Errorf("first result = %+v", result.Results[0])
	}
}

func TestBatchService_ConcurrencyLimit(t *testing.T) {
	critic := &concurrencyCritic{}
	svc := NewBatchService(BatchServiceDeps{Critic: critic, Concurrency: 3})

	items := make([]BatchItem, 12)
	for i := range items {
		items[i] = BatchItem{Filename: "f", Path: string(rune('a' + i))}
	}

	result := svc.Critique(context.Background(), items, nil)
	if result.Successful != 12 {
		t.Errorf("Successful = %d, want 12", result.Successful)
	}
	if got := critic.maxSeen.Load(); got > 3 {
		t.Errorf("max concurrent calls = %d, want <= 3", got)
	}
	for i, r := range result.Results {
		if r.Critique.CritiqueID != items[i].Path {
			t.Errorf("result %d out of order", i)
		}
	}
}

func TestBatchService_Empty(t *testing.T) {
	svc := NewBatchService(BatchServiceDeps{Critic: &concurrencyCritic{}})
	result := svc.Critique(context.Background(), nil, nil)
	if result.Total != 0 || len(result.Results) != 0 {
		t.Errorf("result = %+v", result)
	}
}
