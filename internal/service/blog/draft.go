package blog

import (
	"context"
	"sync"
)

// Draft черновик поста: идея и обложка по одной теме.
type Draft struct {
	Topic string
	Idea  Outcome
	Image Outcome
}

// GenerateDraft параллельно генерирует идею и обложку. Каждая половина независимо уходит в свою заглушку.
func (g *Generator) GenerateDraft(ctx context.Context, topic string) Draft {
	d := Draft{Topic: topic}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		d.Idea = g.IdeaOutcome(ctx, topic)
	}()
	go func() {
		defer wg.Done()
		d.Image = g.ImageOutcome(ctx, topic)
	}()
	wg.Wait()

	return d
}
