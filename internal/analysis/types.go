package analysis

import "time"

// Result is the WBS analysis produced by the external analyzer for one
// uploaded document. The JSON field names are the analyzer's wire contract
// and also the shape of the exported file, so they must stay stable.
type Result struct {
	ProjectInfo     ProjectInfo      `json:"project_info"`
	WBS             WBS              `json:"wbs"`
	Risks           []Risk           `json:"risks,omitempty"`
	Assumptions     []string         `json:"assumptions,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

type ProjectInfo struct {
	ProjectName         string `json:"project_name"`
	Description         string `json:"description"`
	EstimatedDuration   string `json:"estimated_duration"`
	ComplexityLevel     string `json:"complexity_level"`
	TotalEstimatedHours int    `json:"total_estimated_hours"`
}

type WBS struct {
	Phases []Phase `json:"phases"`
}

type Phase struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Duration       string        `json:"duration"`
	EstimatedHours int           `json:"estimated_hours"`
	WorkPackages   []WorkPackage `json:"work_packages"`
}

type WorkPackage struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	EstimatedHours int      `json:"estimated_hours"`
	Dependencies   []string `json:"dependencies,omitempty"`
	Deliverables   []string `json:"deliverables,omitempty"`
	SkillsRequired []string `json:"skills_required,omitempty"`
	Tasks          []Task   `json:"tasks,omitempty"`
}

type Task struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	EstimatedHours int      `json:"estimated_hours"`
	Status         string   `json:"status"`
	SkillsRequired []string `json:"skills_required,omitempty"`
}

type Risk struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Probability string `json:"probability"`
	Impact      string `json:"impact"`
	Mitigation  string `json:"mitigation"`
}

type Recommendation struct {
	Category       string `json:"category"`
	Priority       string `json:"priority"`
	Recommendation string `json:"recommendation"`
}

// Record is one stored analysis: the result plus metadata about the upload
// it came from. This is what the results page and API serve.
type Record struct {
	ID        string         `json:"id"`
	Filename  string         `json:"filename"`
	Timestamp time.Time      `json:"timestamp"`
	Result    *Result        `json:"result"`
	Usage     map[string]int `json:"usage,omitempty"`
}
