package testing

import (
	"os"

	"github.com/onsi/gomega"
	"github.com/veedubyou/stem-separator/src/shared/config/envvar"
)

func ExpectSuccess[T any](t T, err error) T {
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())
	return t
}

func SetTestEnv() {
	err := os.Setenv(envvar.ENVIRONMENT, "test")
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())
}
