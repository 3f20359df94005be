package leave_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLeaveService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Leave Service Suite")
}
