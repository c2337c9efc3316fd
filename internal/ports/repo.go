package ports

import (
	"context"

	"jfrog-cleaner/internal/types"
)

type TagInventoryPort interface {
	ListImages(ctx context.Context, repository string) ([]string, error)
	ListTags(ctx context.Context, repository string, image string) ([]types.Tag, error)
}

type TagDeleterPort interface {
	DeleteTag(ctx context.Context, repository string, tagPath string) error
}

type RegistryPort interface {
	TagInventoryPort
	TagDeleterPort
}
