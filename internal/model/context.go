package model

// ContextOption is one selectable value of a context dimension with its
// hour multiplier
type ContextOption struct {
	Value      string  `yaml:"value"`
	Label      string  `yaml:"label"`
	Multiplier float64 `yaml:"multiplier"`
}

// ClientOption is a context option that also suggests a revision percent
type ClientOption struct {
	ContextOption          `yaml:",inline"`
	DefaultRevisionPercent float64 `yaml:"defaultRevisionPercent"`
}

// ProjectType carries no multiplier; it only frames the estimate
type ProjectType struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// ProjectContext captures the five context dimensions of a project. The
// aggregate multiplier is the product of the four multiplier-bearing
// dimensions, unless pinned manually.
type ProjectContext struct {
	ProjectType ProjectType   `yaml:"projectType"`
	Domain      ContextOption `yaml:"domain"`
	Methodology ContextOption `yaml:"methodology"`
	Client      ClientOption  `yaml:"client"`
	Deadline    ContextOption `yaml:"deadline"`

	ContextMultiplier         float64 `yaml:"contextMultiplier"`
	ContextMultiplierIsManual bool    `yaml:"contextMultiplierIsManual"`
}

// RecomputeMultiplier refreshes the stored aggregate multiplier from the
// dimension multipliers. Callers invoke it after changing any dimension;
// a manual override is left untouched.
func (c *ProjectContext) RecomputeMultiplier() {
	if c.ContextMultiplierIsManual {
		return
	}
	c.ContextMultiplier = c.Domain.Multiplier *
		c.Methodology.Multiplier *
		c.Client.Multiplier *
		c.Deadline.Multiplier
}

// DefaultContext returns the neutral starting context
func DefaultContext() ProjectContext {
	return ProjectContext{
		ProjectType:       ProjectTypeOptions[0],
		Domain:            DomainOptions[0],
		Methodology:       MethodologyOptions[0],
		Client:            ClientOptions[0],
		Deadline:          DeadlineOptions[0],
		ContextMultiplier: 1.0,
	}
}

// ProjectTypeOptions are the selectable project kinds
var ProjectTypeOptions = []ProjectType{
	{Value: "new_course", Label: "New course from scratch"},
	{Value: "rework", Label: "Rework of an existing course"},
	{Value: "standalone", Label: "Standalone materials (not a course)"},
	{Value: "support", Label: "Methodological support"},
}

// DomainOptions grade how familiar the subject area is
var DomainOptions = []ContextOption{
	{Value: "familiar", Label: "Familiar subject", Multiplier: 1.0},
	{Value: "adjacent", Label: "Adjacent subject", Multiplier: 1.15},
	{Value: "new", Label: "Completely new subject", Multiplier: 1.3},
}

// MethodologyOptions grade how proven the teaching methodology is
var MethodologyOptions = []ContextOption{
	{Value: "own", Label: "Own proven methodology", Multiplier: 1.0},
	{Value: "adapt", Label: "Adapting an external methodology", Multiplier: 1.2},
	{Value: "new", Label: "Developing a new methodology", Multiplier: 1.4},
}

// ClientOptions grade the working relationship with the client
var ClientOptions = []ClientOption{
	{ContextOption: ContextOption{Value: "regular", Label: "Regular client", Multiplier: 1.0}, DefaultRevisionPercent: 0.1},
	{ContextOption: ContextOption{Value: "new", Label: "New client", Multiplier: 1.1}, DefaultRevisionPercent: 0.2},
	{ContextOption: ContextOption{Value: "complex", Label: "Complex context (bureaucracy, approvals)", Multiplier: 1.2}, DefaultRevisionPercent: 0.25},
}

// DeadlineOptions grade the schedule pressure
var DeadlineOptions = []ContextOption{
	{Value: "standard", Label: "Standard deadlines", Multiplier: 1.0},
	{Value: "tight", Label: "Tight deadlines", Multiplier: 1.2},
	{Value: "urgent", Label: "Urgent deadlines", Multiplier: 1.5},
	{Value: "emergency", Label: "Emergency deadlines", Multiplier: 2.0},
}

// FindDomainOption looks up a domain option by value
func FindDomainOption(value string) (ContextOption, bool) {
	return findOption(DomainOptions, value)
}

// FindMethodologyOption looks up a methodology option by value
func FindMethodologyOption(value string) (ContextOption, bool) {
	return findOption(MethodologyOptions, value)
}

// FindDeadlineOption looks up a deadline option by value
func FindDeadlineOption(value string) (ContextOption, bool) {
	return findOption(DeadlineOptions, value)
}

// FindClientOption looks up a client option by value
func FindClientOption(value string) (ClientOption, bool) {
	for _, opt := range ClientOptions {
		if opt.Value == value {
			return opt, true
		}
	}
	return ClientOption{}, false
}

// FindProjectTypeOption looks up a project type by value
func FindProjectTypeOption(value string) (ProjectType, bool) {
	for _, opt := range ProjectTypeOptions {
		if opt.Value == value {
			return opt, true
		}
	}
	return ProjectType{}, false
}

func findOption(options []ContextOption, value string) (ContextOption, bool) {
	for _, opt := range options {
		if opt.Value == value {
			return opt, true
		}
	}
	return ContextOption{}, false
}
