package minio

import (
	"context"
	"net/url"
	"strings"

	"github.com/DRSN-tech/go-storefront/internal/cfg"
	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ImageRepo выдаёт подписанные ссылки на изображения товаров из бакета MinIO.
type ImageRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Link возвращает подписанный URL объекта с ключом image. Абсолютные URL возвращаются как есть.
func (i *ImageRepo) Link(ctx context.Context, image string) (string, error) {
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image, nil
	}

	u, err := i.mc.PresignedGetObject(ctx, i.cfg.BucketName, strings.TrimPrefix(image, "/"), i.cfg.LinkTTL, url.Values{})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return u.String(), nil
}
