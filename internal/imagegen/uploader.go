// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imagegen

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// UploaderConfig holds the object store connection settings.
type UploaderConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// Uploader stores generated images in an S3-compatible object store and
// hands out their public URLs.
type Uploader struct {
	mc            *minio.Client
	bucket        string
	publicBaseURL string
}

// NewUploader creates an Uploader. Returns nil (not an error) when the
// object store is unconfigured: the feature is optional.
func NewUploader(cfg UploaderConfig) (*Uploader, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, nil
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &Uploader{
		mc:            mc,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.mc.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := u.mc.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

// Upload stores JPEG bytes under a timestamp-qualified unique key and
// returns the public URL. Keys never collide, so regeneration can
// delete the previous object before or after uploading the new one.
func (u *Uploader) Upload(ctx context.Context, recipeID int64, data []byte) (string, error) {
	key := fmt.Sprintf("recipes/%d/%d-%s.jpg", recipeID, time.Now().UTC().Unix(), uuid.NewString()[:8])

	_, err := u.mc.PutObject(ctx, u.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/jpeg"})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return u.publicBaseURL + "/" + key, nil
}

// Delete removes the object behind a previously issued public URL.
// URLs from outside this uploader's namespace are ignored.
func (u *Uploader) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, u.publicBaseURL+"/")
	if !ok || key == "" {
		return nil
	}
	return u.mc.RemoveObject(ctx, u.bucket, key, minio.RemoveObjectOptions{})
}
