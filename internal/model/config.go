package model

// Config represents the application configuration stored in .estima.yml
type Config struct {
	Currency            string               `yaml:"currency" json:"currency"`
	HourlyRate          float64              `yaml:"hourlyRate" json:"hourlyRate"`
	TaxRate             float64              `yaml:"taxRate" json:"taxRate"`
	RoleMultipliers     map[RoleType]float64 `yaml:"roleMultipliers,omitempty" json:"roleMultipliers,omitempty"`
	VolumeGrouping      VolumeGroupingMode   `yaml:"volumeGrouping" json:"volumeGrouping"`
	DefaultRevisionRate float64              `yaml:"defaultRevisionRate" json:"defaultRevisionRate"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Currency:            "USD",
		HourlyRate:          50,
		TaxRate:             0,
		VolumeGrouping:      VolumeByElement,
		DefaultRevisionRate: 0.1,
	}
}

// RoleMultiplier returns the configured multiplier for a role, falling back
// to the built-in defaults
func (c *Config) RoleMultiplier(role RoleType) float64 {
	if m, ok := c.RoleMultipliers[role]; ok {
		return m
	}
	if m, ok := DefaultRoleMultipliers[role]; ok {
		return m
	}
	return 1.0
}
