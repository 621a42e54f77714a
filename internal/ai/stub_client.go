package ai

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
)

const stubIdea = "Stub idea: the best travel stories start with a wrong turn. Describe the street you never meant to find."

// StubClient заглушка, которая не делает реальных запросов
type StubClient struct{}

func NewStubClient() *StubClient { return &StubClient{} }

func (c *StubClient) GenerateText(_ context.Context, _ string) (string, error) {
	return stubIdea, nil
}

// GenerateImage возвращает однотонную JPEG-картинку 160x90.
func (c *StubClient) GenerateImage(_ context.Context, _ string, _ ImageOptions) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 160, 90))
	fill := color.RGBA{R: 0x3b, G: 0x82, B: 0xc4, A: 0xff}
	for y := range 90 {
		for x := range 160 {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
