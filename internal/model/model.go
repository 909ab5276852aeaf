// Package model defines the AppModel: the structured result of scanning an
// application source tree. The model is built once by the scanner and treated
// as read-only by every downstream component.
package model

// Framework identifies the web framework a scanned app is built on.
type Framework string

const (
	FrameworkNext    Framework = "next"
	FrameworkReact   Framework = "react"
	FrameworkExpress Framework = "express"
	FrameworkVue     Framework = "vue"
	FrameworkAngular Framework = "angular"
	FrameworkSvelte  Framework = "svelte"
	FrameworkUnknown Framework = "unknown"
)

// AppType is the coarse classification of what the app serves.
type AppType string

const (
	AppTypeWeb     AppType = "web-app"
	AppTypeAPI     AppType = "api-server"
	AppTypeUnknown AppType = "unknown"
)

// ORMKind identifies which ORM idiom a data model was extracted from.
type ORMKind string

const (
	ORMMongoose ORMKind = "mongoose"
	ORMPrisma   ORMKind = "prisma"
)

// IntegrationKind classifies a derived integration point.
type IntegrationKind string

const (
	IntegrationAuth     IntegrationKind = "auth"
	IntegrationDatabase IntegrationKind = "database"
	IntegrationBranding IntegrationKind = "branding"
)

// APIRoute is one HTTP endpoint discovered in the source tree.
type APIRoute struct {
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	SourceFile string    `json:"source_file"` // relative to the scanned root
	Framework  Framework `json:"framework"`
}

// DataModel is one persistence-layer model discovered in the source tree.
type DataModel struct {
	Name       string  `json:"name"`
	Collection string  `json:"collection,omitempty"`
	SourceFile string  `json:"source_file"`
	ORM        ORMKind `json:"orm"`
}

// Component is one UI-layer symbol discovered in the source tree. Detection is
// heuristic: any exported uppercase declaration qualifies, so configuration
// constants can appear here too.
type Component struct {
	Name       string `json:"name"`
	SourceFile string `json:"source_file"`
}

// IntegrationPoint links a discovered code location to a platform-integration
// concern. It is a derived view used for reporting, never a primary input.
type IntegrationPoint struct {
	Kind       IntegrationKind `json:"kind"`
	SourceFile string          `json:"source_file"`
	Rationale  string          `json:"rationale"`
}

// AppModel is the full scan result. All SourceFile fields reference the
// original tree at scan time; the model never points into generated output.
type AppModel struct {
	Framework         Framework          `json:"framework"`
	AppType           AppType            `json:"app_type"`
	Dependencies      map[string]string  `json:"dependencies"`
	APIRoutes         []APIRoute         `json:"api_routes"`
	Models            []DataModel        `json:"models"`
	Components        []Component        `json:"components"`
	HasAuth           bool               `json:"has_auth"`
	HasDatabase       bool               `json:"has_database"`
	IntegrationPoints []IntegrationPoint `json:"integration_points"`
}

// New returns an empty model with unknown classification. Slices are non-nil
// so downstream JSON encoding stays stable.
func New() *AppModel {
	return &AppModel{
		Framework:         FrameworkUnknown,
		AppType:           AppTypeUnknown,
		Dependencies:      map[string]string{},
		APIRoutes:         []APIRoute{},
		Models:            []DataModel{},
		Components:        []Component{},
		IntegrationPoints: []IntegrationPoint{},
	}
}
