package model

// LibraryElement is a reusable work-item template
type LibraryElement struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description,omitempty"`
	HoursPerUnit float64  `yaml:"hoursPerUnit"`
	Unit         string   `yaml:"unit"`
	Category     Category `yaml:"category"`
	Role         RoleType `yaml:"role"`
	Revisionable bool     `yaml:"revisionable"`
	BuiltIn      bool     `yaml:"builtIn,omitempty"`
	Hidden       bool     `yaml:"hidden,omitempty"`
}

// LibrarySet is a named bundle of elements added together as one group
type LibrarySet struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Elements    []LibraryElement `yaml:"elements"`
	BuiltIn     bool             `yaml:"builtIn,omitempty"`
}

// BuiltInElements is the standard catalog of learning-content work items
var BuiltInElements = []LibraryElement{
	{ID: "lib-longread", Name: "Long-read article", HoursPerUnit: 2.5, Unit: "~1 A4 page", Category: CategoryContent, Role: RoleAuthor, Revisionable: true, Description: "Structured text material", BuiltIn: true},
	{ID: "lib-script", Name: "Video script", HoursPerUnit: 4.0, Unit: "~15 min video", Category: CategoryContent, Role: RoleAuthor, Revisionable: true, Description: "Script for a video lesson", BuiltIn: true},
	{ID: "lib-presentation", Name: "Presentation", HoursPerUnit: 6.0, Unit: "~30 slides", Category: CategoryContent, Role: RoleAuthor, Revisionable: true, Description: "Slides for a lesson or webinar", BuiltIn: true},
	{ID: "lib-exercises", Name: "Exercises", HoursPerUnit: 1.0, Unit: "pcs", Category: CategoryContent, Role: RoleAuthor, Revisionable: true, Description: "Practical assignment", BuiltIn: true},
	{ID: "lib-illustrations", Name: "Illustrations (selection and packaging)", HoursPerUnit: 0.5, Unit: "set", Category: CategoryContent, Role: RoleAuthor, Revisionable: true, Description: "Selecting and arranging illustrative material", BuiltIn: true},
	{ID: "lib-quiz", Name: "Quizzes", HoursPerUnit: 1.5, Unit: "~7 questions", Category: CategoryContent, Role: RoleAuthor, Revisionable: true, Description: "Interactive knowledge check", BuiltIn: true},
	{ID: "lib-instructions", Name: "Step-by-step instructions", HoursPerUnit: 3.0, Unit: "pcs", Category: CategoryContent, Role: RoleAuthor, Revisionable: true, Description: "Detailed step-by-step instructions", BuiltIn: true},
	{ID: "lib-templates", Name: "Templates / Canvases", HoursPerUnit: 2.0, Unit: "pcs", Category: CategoryContent, Role: RoleAuthor, Revisionable: true, Description: "Working templates for students", BuiltIn: true},
	{ID: "lib-example", Name: "Worked example", HoursPerUnit: 2.0, Unit: "pcs", Category: CategoryContent, Role: RoleAuthor, Revisionable: true, Description: "Detailed walkthrough of an example", BuiltIn: true},
	{ID: "lib-case", Name: "Case description", HoursPerUnit: 3.0, Unit: "pcs", Category: CategoryContent, Role: RoleAuthor, Revisionable: true, Description: "Description of a practical case", BuiltIn: true},
	{ID: "lib-analysis-questions", Name: "Analysis questions", HoursPerUnit: 1.0, Unit: "set", Category: CategoryContent, Role: RoleAuthor, Revisionable: true, Description: "Questions for reflection and analysis", BuiltIn: true},
	{ID: "lib-solution", Name: "Solution walkthrough", HoursPerUnit: 1.0, Unit: "pcs", Category: CategoryContent, Role: RoleAuthor, Revisionable: true, Description: "Walkthrough of a reference solution", BuiltIn: true},
	{ID: "lib-engagement", Name: "Engagement mechanics", HoursPerUnit: 2.0, Unit: "set", Category: CategoryContent, Role: RoleAuthor, Revisionable: true, Description: "Interactive engagement mechanics", BuiltIn: true},
	{ID: "lib-test-current", Name: "Progress test", HoursPerUnit: 2.0, Unit: "~10-15 questions", Category: CategoryAssessment, Role: RoleAuthor, Revisionable: true, Description: "Intermediate test", BuiltIn: true},
	{ID: "lib-test-mid", Name: "Midterm assessment", HoursPerUnit: 4.0, Unit: "pcs", Category: CategoryAssessment, Role: RoleAuthor, Revisionable: true, Description: "Intermediate assessment", BuiltIn: true},
	{ID: "lib-test-final", Name: "Final assessment", HoursPerUnit: 6.0, Unit: "pcs", Category: CategoryAssessment, Role: RoleAuthor, Revisionable: true, Description: "Final assessment", BuiltIn: true},
	{ID: "lib-research", Name: "Desk research", HoursPerUnit: 6.0, Unit: "project", Category: CategoryService, Role: RoleAuthor, Revisionable: false, Description: "Subject-area research", BuiltIn: true},
	{ID: "lib-audit", Name: "Instructional audit", HoursPerUnit: 6.0, Unit: "project", Category: CategoryService, Role: RoleAuthor, Revisionable: false, Description: "Review of an existing course", BuiltIn: true},
	{ID: "lib-artifacts", Name: "Instructional artifacts", HoursPerUnit: 5.0, Unit: "set", Category: CategoryService, Role: RoleAuthor, Revisionable: false, Description: "Competency maps, matrices and similar", BuiltIn: true},
	{ID: "lib-speaker", Name: "Speaker preparation", HoursPerUnit: 4.0, Unit: "session", Category: CategoryService, Role: RoleAuthor, Revisionable: false, Description: "Preparing and rehearsing with a speaker", BuiltIn: true},
}

// BuiltInSets is the standard catalog of lesson-format bundles
var BuiltInSets = []LibrarySet{
	{
		ID:          "set-text-lesson",
		Name:        "Text lesson (~30 min)",
		Description: "Standard set for a text-based lesson",
		BuiltIn:     true,
		Elements: []LibraryElement{
			{Name: "Long-read article", HoursPerUnit: 2.5, Unit: "~1 A4 page", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
			{Name: "Exercises", HoursPerUnit: 1.0, Unit: "pcs", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
			{Name: "Illustrations (selection and packaging)", HoursPerUnit: 0.5, Unit: "set", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
			{Name: "Quizzes", HoursPerUnit: 1.5, Unit: "~7 questions", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
		},
	},
	{
		ID:          "set-video-lesson",
		Name:        "Video lesson (~60 min)",
		Description: "Standard set for a video lesson",
		BuiltIn:     true,
		Elements: []LibraryElement{
			{Name: "Video script", HoursPerUnit: 4.0, Unit: "~15 min video", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
			{Name: "Presentation", HoursPerUnit: 6.0, Unit: "~30 slides", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
			{Name: "Illustrations (selection and packaging)", HoursPerUnit: 0.5, Unit: "set", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
		},
	},
	{
		ID:          "set-webinar",
		Name:        "Webinar (~90 min)",
		Description: "Standard set for a live webinar",
		BuiltIn:     true,
		Elements: []LibraryElement{
			{Name: "Presentation", HoursPerUnit: 6.0, Unit: "~30 slides", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
			{Name: "Illustrations (selection and packaging)", HoursPerUnit: 0.5, Unit: "set", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
			{Name: "Engagement mechanics", HoursPerUnit: 2.0, Unit: "set", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
		},
	},
	{
		ID:          "set-practicum",
		Name:        "Practicum (~60 min)",
		Description: "Standard set for a practicum session",
		BuiltIn:     true,
		Elements: []LibraryElement{
			{Name: "Step-by-step instructions", HoursPerUnit: 3.0, Unit: "pcs", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
			{Name: "Templates / Canvases", HoursPerUnit: 2.0, Unit: "pcs", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
			{Name: "Exercises", HoursPerUnit: 1.0, Unit: "pcs", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
			{Name: "Worked example", HoursPerUnit: 2.0, Unit: "pcs", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
		},
	},
	{
		ID:          "set-case-study",
		Name:        "Case study (~45 min)",
		Description: "Standard set for a case-study lesson",
		BuiltIn:     true,
		Elements: []LibraryElement{
			{Name: "Case description", HoursPerUnit: 3.0, Unit: "pcs", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
			{Name: "Analysis questions", HoursPerUnit: 1.0, Unit: "set", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
			{Name: "Solution walkthrough", HoursPerUnit: 1.0, Unit: "pcs", Category: CategoryContent, Role: RoleAuthor, Revisionable: true},
		},
	},
}

// FindBuiltInElement returns the built-in element with the given id, or nil
func FindBuiltInElement(id string) *LibraryElement {
	for i := range BuiltInElements {
		if BuiltInElements[i].ID == id {
			return &BuiltInElements[i]
		}
	}
	return nil
}

// FindBuiltInSet returns the built-in set with the given id, or nil
func FindBuiltInSet(id string) *LibrarySet {
	for i := range BuiltInSets {
		if BuiltInSets[i].ID == id {
			return &BuiltInSets[i]
		}
	}
	return nil
}

// NewItemFromElement creates an estimate item pre-filled from a library element
func NewItemFromElement(el LibraryElement) *EstimateItem {
	item := NewItem(el.Name, el.Category)
	item.HoursPerUnit = el.HoursPerUnit
	item.Unit = el.Unit
	item.Role = el.Role
	item.Revisionable = el.Revisionable
	item.Source = SourceLibraryElement
	item.LibraryElementID = el.ID
	return item
}

// ItemsFromSet creates a container holding one item per element of the set.
// The container is returned first, followed by its children.
func ItemsFromSet(set LibrarySet) []*EstimateItem {
	group := NewContainer(set.Name, ContainerSumChildren)
	group.Source = SourceLibrarySet
	items := []*EstimateItem{group}
	for i, el := range set.Elements {
		item := NewItemFromElement(el)
		item.Source = SourceLibrarySet
		item.ParentID = &group.ID
		item.SortOrder = i
		items = append(items, item)
	}
	return items
}
