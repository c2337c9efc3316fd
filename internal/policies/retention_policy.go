package policies

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"jfrog-cleaner/internal/types"
)

// RetentionPolicy resolves the days-old / keep-minimum pair for each image
// from the global defaults, optional repository defaults and optional
// per-image overrides.
type RetentionPolicy struct {
	Defaults     types.PolicySetting
	Mode         types.OverrideMode
	repositories map[string]types.PolicyOverride
	images       map[string]types.PolicyOverride
}

func NewRetentionPolicy(defaults types.PolicySetting, mode string, repositories []types.RepositoryConfigEntry, images []types.ImageConfigEntry) (RetentionPolicy, error) {
	overrideMode, err := ParseOverrideMode(mode)
	if err != nil {
		return RetentionPolicy{}, err
	}
	if err := validateSetting("cleanup", defaults); err != nil {
		return RetentionPolicy{}, err
	}
	policy := RetentionPolicy{
		Defaults:     defaults,
		Mode:         overrideMode,
		repositories: map[string]types.PolicyOverride{},
		images:       map[string]types.PolicyOverride{},
	}
	for _, entry := range repositories {
		name := strings.TrimSpace(entry.Repository)
		if name == "" {
			return RetentionPolicy{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("repository_config entry is missing repository")
		}
		override := types.PolicyOverride{DaysOld: entry.DaysOld, KeepMinimum: entry.KeepMinimum}
		if err := policy.checkOverride("repository_config "+name, override); err != nil {
			return RetentionPolicy{}, err
		}
		policy.repositories[name] = override
	}
	for _, entry := range images {
		name := strings.TrimSpace(entry.Image)
		if name == "" {
			log.Warn().Msg("ignoring image_config entry without image")
			continue
		}
		override := types.PolicyOverride{DaysOld: entry.DaysOld, KeepMinimum: entry.KeepMinimum}
		if err := policy.checkOverride("image_config "+name, override); err != nil {
			return RetentionPolicy{}, err
		}
		policy.images[name] = override
	}
	return policy, nil
}

func ParseOverrideMode(value string) (types.OverrideMode, error) {
	switch types.OverrideMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", types.OverrideModeFallback:
		return types.OverrideModeFallback, nil
	case types.OverrideModeStrict:
		return types.OverrideModeStrict, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown override mode: %s", value))
	}
}

// ResolvePolicy returns the override when one exists, otherwise the
// repository default.
func ResolvePolicy(repositoryDefault types.PolicySetting, override *types.PolicySetting) types.PolicySetting {
	if override == nil {
		return repositoryDefault
	}
	return *override
}

func (p RetentionPolicy) Resolve(spec types.ImageSpec) types.PolicySetting {
	return ResolvePolicy(p.RepositoryDefault(spec.Repository), p.Override(spec))
}

func (p RetentionPolicy) RepositoryDefault(repository string) types.PolicySetting {
	override, ok := p.repositories[repository]
	if !ok {
		return p.Defaults
	}
	return fill(p.Defaults, override)
}

// Override builds the effective per-image setting, or nil when the image has
// no entry. Omitted fields fall back to the repository default; strict mode
// never reaches that branch because partial entries are rejected up front.
func (p RetentionPolicy) Override(spec types.ImageSpec) *types.PolicySetting {
	override, ok := p.images[spec.String()]
	if !ok {
		return nil
	}
	setting := fill(p.RepositoryDefault(spec.Repository), override)
	return &setting
}

// UnusedOverrides lists image_config entries that match none of the given
// specifiers.
func (p RetentionPolicy) UnusedOverrides(specs []types.ImageSpec) []string {
	used := map[string]struct{}{}
	for _, spec := range specs {
		used[spec.String()] = struct{}{}
	}
	var unused []string
	for name := range p.images {
		if _, ok := used[name]; !ok {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)
	return unused
}

func (p RetentionPolicy) checkOverride(scope string, override types.PolicyOverride) error {
	if p.Mode == types.OverrideModeStrict && !override.Complete() {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s must set both days_old and keep_minimum in strict override mode", scope))
	}
	if override.DaysOld != nil && *override.DaysOld < 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s: days_old must not be negative", scope))
	}
	if override.KeepMinimum != nil && *override.KeepMinimum < 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s: keep_minimum must not be negative", scope))
	}
	return nil
}

func validateSetting(scope string, setting types.PolicySetting) error {
	if setting.DaysOld < 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s: days_old must not be negative", scope))
	}
	if setting.KeepMinimum < 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s: keep_minimum must not be negative", scope))
	}
	return nil
}

func fill(base types.PolicySetting, override types.PolicyOverride) types.PolicySetting {
	setting := base
	if override.DaysOld != nil {
		setting.DaysOld = *override.DaysOld
	}
	if override.KeepMinimum != nil {
		setting.KeepMinimum = *override.KeepMinimum
	}
	return setting
}
