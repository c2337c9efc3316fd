package types

type ImageConfigEntry struct {
	Image       string `mapstructure:"image" yaml:"image"`
	DaysOld     *int   `mapstructure:"days_old" yaml:"days_old,omitempty"`
	KeepMinimum *int   `mapstructure:"keep_minimum" yaml:"keep_minimum,omitempty"`
}

type RepositoryConfigEntry struct {
	Repository  string `mapstructure:"repository" yaml:"repository"`
	DaysOld     *int   `mapstructure:"days_old" yaml:"days_old,omitempty"`
	KeepMinimum *int   `mapstructure:"keep_minimum" yaml:"keep_minimum,omitempty"`
}

type RegistryConfig struct {
	URL        string
	Username   string
	Password   string
	TimeoutSec int
}
