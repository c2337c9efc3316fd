package types

type PolicySetting struct {
	DaysOld     int `json:"days_old" yaml:"days_old"`
	KeepMinimum int `json:"keep_minimum" yaml:"keep_minimum"`
}

// PolicyOverride is a per-image or per-repository entry as written in the
// config file. Nil fields were omitted by the user.
type PolicyOverride struct {
	DaysOld     *int
	KeepMinimum *int
}

func (o PolicyOverride) Complete() bool {
	return o.DaysOld != nil && o.KeepMinimum != nil
}

type ResolvedImage struct {
	Spec   ImageSpec
	Policy PolicySetting
}
