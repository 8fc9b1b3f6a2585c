// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imagegen

import "context"

// Service combines prompt generation, image synthesis and object
// storage into the single operation the recipe handlers need.
type Service struct {
	gen *Generator
	up  *Uploader
}

// NewService creates a Service. Either half may be disabled; the
// service is available only when both are.
func NewService(gen *Generator, up *Uploader) *Service {
	return &Service{gen: gen, up: up}
}

// Available reports whether the full generate-and-store pipeline is
// configured.
func (s *Service) Available() bool {
	return s != nil && s.gen.Available() && s.up != nil
}

// GenerateParams identifies the recipe an image is generated for.
type GenerateParams struct {
	RecipeID    int64
	Name        string
	Category    string
	Ingredients []string
	// PreviousURL, when set, points at the object to delete after the
	// new image is stored (regeneration).
	PreviousURL string
}

// Generate produces an image for a recipe and stores it, returning the
// public URL. ErrUnavailable when the pipeline is unconfigured; any
// other failure leaves the recipe untouched for the caller to report.
func (s *Service) Generate(ctx context.Context, p GenerateParams) (string, error) {
	if !s.Available() {
		return "", ErrUnavailable
	}

	prompt := s.gen.Prompt(ctx, p.Name, p.Category, p.Ingredients)
	data, err := s.gen.Image(ctx, prompt)
	if err != nil {
		return "", err
	}

	url, err := s.up.Upload(ctx, p.RecipeID, data)
	if err != nil {
		return "", err
	}

	if p.PreviousURL != "" {
		// Best effort: an orphaned object is preferable to failing the
		// regeneration after the new image is already stored.
		_ = s.up.Delete(ctx, p.PreviousURL)
	}
	return url, nil
}

// Remove deletes a stored image object. ErrUnavailable when the object
// store is unconfigured.
func (s *Service) Remove(ctx context.Context, url string) error {
	if s == nil || s.up == nil {
		return ErrUnavailable
	}
	return s.up.Delete(ctx, url)
}
