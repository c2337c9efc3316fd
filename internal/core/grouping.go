package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"jfrog-cleaner/internal/types"
)

// ParseImageSpec splits a "repository/image" specifier at the first slash.
// The image part may itself contain slashes.
func ParseImageSpec(value string) (types.ImageSpec, error) {
	trimmed := strings.TrimSpace(value)
	repo, image, found := strings.Cut(trimmed, "/")
	if !found {
		return types.ImageSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid image format %q: expected repository/image-name", value))
	}
	repo = strings.TrimSpace(repo)
	image = strings.Trim(strings.TrimSpace(image), "/")
	if repo == "" || image == "" {
		return types.ImageSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid image format %q: repository and image must not be empty", value))
	}
	return types.ImageSpec{Repository: repo, Image: image}, nil
}

// GroupImages groups specifiers by repository, keeping the order in which
// repositories and images are first seen. Any malformed specifier fails the
// whole call.
func GroupImages(specifiers []string) ([]types.RepositoryGroup, error) {
	var groups []types.RepositoryGroup
	index := map[string]int{}
	seen := map[string]struct{}{}
	for _, value := range specifiers {
		spec, err := ParseImageSpec(value)
		if err != nil {
			return nil, err
		}
		key := spec.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		pos, ok := index[spec.Repository]
		if !ok {
			pos = len(groups)
			index[spec.Repository] = pos
			groups = append(groups, types.RepositoryGroup{Repository: spec.Repository})
		}
		groups[pos].Images = append(groups[pos].Images, spec.Image)
	}
	return groups, nil
}
