// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imagegen produces AI-generated recipe images: a text model
// writes the image prompt, an image model renders it, and the result is
// stored in an object store. The whole feature is optional; when
// unconfigured every entry point reports ErrUnavailable and recipe
// flows continue without images.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ErrUnavailable means the external service is not configured. Callers
// surface this as a distinct "feature unavailable" condition, never as
// a generic failure.
var ErrUnavailable = errors.New("image generation is not available")

const (
	requestTimeout = 120 * time.Second
	jpegQuality    = 85
)

// Generator wraps the text and image models behind the prompt/image
// pair of operations.
type Generator struct {
	client     openai.Client
	chatModel  string
	imageModel string
	enabled    bool
}

// NewGenerator creates a Generator. An empty API key yields a disabled
// generator whose calls fail with ErrUnavailable.
func NewGenerator(apiKey, chatModel, imageModel string) *Generator {
	g := &Generator{
		chatModel:  chatModel,
		imageModel: imageModel,
		enabled:    apiKey != "",
	}
	if g.enabled {
		g.client = openai.NewClient(option.WithAPIKey(apiKey))
	}
	return g
}

// Available reports whether the external service is configured.
func (g *Generator) Available() bool {
	return g != nil && g.enabled
}

// Prompt produces an image prompt for a recipe. The text model is asked
// first; on any failure (unconfigured, network, empty response) the
// deterministic fallback template is used instead, so prompt
// construction never fails.
func (g *Generator) Prompt(ctx context.Context, name, category string, ingredients []string) string {
	if !g.Available() {
		return FallbackPrompt(name, category, ingredients)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.chatModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You write short, vivid prompts for food photography image generation. Respond with the prompt only."),
			openai.UserMessage(fmt.Sprintf("Dish: %s. Category: %s. Key ingredients: %s.",
				name, category, strings.Join(ingredients, ", "))),
		},
	})
	if err != nil {
		slog.Warn("prompt generation failed, using fallback", "error", err)
		return FallbackPrompt(name, category, ingredients)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return FallbackPrompt(name, category, ingredients)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

// FallbackPrompt builds the deterministic templated prompt from recipe
// fields. Equal inputs always produce equal output.
func FallbackPrompt(name, category string, ingredients []string) string {
	var b strings.Builder
	b.WriteString("Professional food photography of ")
	b.WriteString(name)
	if category != "" {
		b.WriteString(", a ")
		b.WriteString(category)
		b.WriteString(" dish")
	}
	if len(ingredients) > 0 {
		n := len(ingredients)
		if n > 3 {
			n = 3
		}
		b.WriteString(", featuring ")
		b.WriteString(strings.Join(ingredients[:n], ", "))
	}
	b.WriteString(". Warm natural lighting, shallow depth of field, appetizing presentation.")
	return b.String()
}

// Image renders a prompt into JPEG bytes. ErrUnavailable when the
// service is unconfigured; any upstream failure is returned as-is with
// no retry.
func (g *Generator) Image(ctx context.Context, prompt string) ([]byte, error) {
	if !g.Available() {
		return nil, ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(g.imageModel),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1024x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("generate image: empty response")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return reencodeJPEG(raw)
}

// reencodeJPEG normalizes whatever the model returned into a JPEG.
func reencodeJPEG(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
