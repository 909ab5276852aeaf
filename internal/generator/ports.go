package generator

import "appweld/internal/model"

// frameworkPorts is the default local port per framework for the generated
// proxy. Anything unmapped (svelte, unknown) falls back to 3000.
var frameworkPorts = map[model.Framework]int{
	model.FrameworkNext:    3000,
	model.FrameworkReact:   3000,
	model.FrameworkExpress: 3001,
	model.FrameworkVue:     3000,
	model.FrameworkAngular: 4200,
}

func portFor(fw model.Framework) int {
	if port, ok := frameworkPorts[fw]; ok {
		return port
	}
	return 3000
}
