package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"jfrog-cleaner/internal/core"
	"jfrog-cleaner/internal/policies"
	"jfrog-cleaner/internal/shared"
	"jfrog-cleaner/internal/types"
)

// cleanupPlan is everything a run needs that can be derived from
// configuration alone.
type cleanupPlan struct {
	Registry types.RegistryConfig
	Groups   []types.RepositoryGroup
	Images   []types.ResolvedImage
	Policy   policies.RetentionPolicy
	Unused   []string
}

func buildPlan(req CleanupRequest) (cleanupPlan, error) {
	registry := types.RegistryConfig{
		URL:        strings.TrimRight(strings.TrimSpace(req.URL), "/"),
		Username:   shared.ExpandEnv(req.Username),
		Password:   shared.ExpandEnv(req.Password),
		TimeoutSec: req.TimeoutSec,
	}
	if registry.URL == "" {
		return cleanupPlan{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("jfrog.url is required")
	}
	if registry.Username == "" || registry.Password == "" {
		return cleanupPlan{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("jfrog.username and jfrog.password are required")
	}
	if registry.TimeoutSec < 0 {
		return cleanupPlan{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("jfrog.timeout_sec must not be negative")
	}
	if req.Workers < 0 {
		return cleanupPlan{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cleanup.workers must not be negative")
	}
	if req.DeleteRate < 0 {
		return cleanupPlan{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cleanup.delete_rate must not be negative")
	}
	if len(nonEmpty(req.Images)) == 0 {
		return cleanupPlan{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no images configured for cleanup")
	}
	groups, err := core.GroupImages(nonEmpty(req.Images))
	if err != nil {
		return cleanupPlan{}, err
	}
	policy, err := policies.NewRetentionPolicy(
		types.PolicySetting{DaysOld: req.DaysOld, KeepMinimum: req.KeepMinimum},
		req.OverrideMode,
		req.RepositoryConfig,
		req.ImageConfig,
	)
	if err != nil {
		return cleanupPlan{}, err
	}

	var images []types.ResolvedImage
	var specs []types.ImageSpec
	for _, group := range groups {
		for _, image := range group.Images {
			spec := types.ImageSpec{Repository: group.Repository, Image: image}
			specs = append(specs, spec)
			images = append(images, types.ResolvedImage{Spec: spec, Policy: policy.Resolve(spec)})
		}
	}
	return cleanupPlan{
		Registry: registry,
		Groups:   groups,
		Images:   images,
		Policy:   policy,
		Unused:   policy.UnusedOverrides(specs),
	}, nil
}

// Validate checks configuration and resolves every image's policy without
// contacting the registry.
func (s Service) Validate(req ValidateRequest) (ValidateResult, error) {
	plan, err := buildPlan(req.Cleanup)
	if err != nil {
		return ValidateResult{}, err
	}
	return ValidateResult{
		Images:           plan.Images,
		Groups:           plan.Groups,
		UnusedOverrides:  plan.Unused,
		DryRun:           req.Cleanup.DryRun,
		OverrideMode:     plan.Policy.Mode,
		RepositoryCount:  len(plan.Groups),
		RegistryEndpoint: plan.Registry.URL,
	}, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		out = append(out, value)
	}
	return out
}
