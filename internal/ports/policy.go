package ports

import "jfrog-cleaner/internal/types"

type PolicyPort interface {
	Resolve(spec types.ImageSpec) types.PolicySetting
}
