package env

import (
	"fmt"

	"github.com/veedubyou/stem-separator/src/shared/config/envvar"
)

type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
	Test        Environment = "test"
)

var knownEnvironments = map[string]Environment{
	string(Production):  Production,
	string(Development): Development,
	string(Test):        Test,
}

// Get panics when ENVIRONMENT is unset or unknown
func Get() Environment {
	value := envvar.MustGet(envvar.ENVIRONMENT)

	environment, ok := knownEnvironments[value]
	if !ok {
		panic(fmt.Sprintf("Invalid environment %q is set", value))
	}

	return environment
}
