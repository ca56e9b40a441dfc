// pkg/registry/schema.go
package registry

// Worker categories in this fleet.
const (
	CategoryRecommendation = "recommendation"
	CategoryDataAccess     = "data-access"
	CategoryCommunication  = "communication"
)

// ValidCategories is the set of categories Validate accepts.
var ValidCategories = map[string]bool{
	CategoryRecommendation: true,
	CategoryDataAccess:     true,
	CategoryCommunication:  true,
}

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows"`
	Tags                 []string               `json:"tags"`
}
