package workflow

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestWorkflow(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Workflow Module Suite")
}

var _ = ginkgo.Describe("Definition", func() {
	chain := Definition{
		Name: "test_chain",
		Stages: []Stage{
			{
				Name:         "first",
				RequiredRole: RoleHOS,
				AllowedPrior: []string{"pending"},
				Results:      []string{"first_responded"},
			},
			{
				Name:         "second",
				RequiredRole: RoleHR,
				AllowedPrior: []string{"first_responded"},
				Results:      []string{"second_responded"},
			},
		},
	}

	ginkgo.Describe("Stage", func() {
		ginkgo.It("should find a stage by name", func() {
			stage, err := chain.Stage("second")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stage.RequiredRole).To(gomega.Equal(RoleHR))
		})

		ginkgo.It("should reject an unknown stage name", func() {
			_, err := chain.Stage("nope")
			gomega.Expect(err).To(gomega.MatchError(ErrUnknownStage))
		})
	})

	ginkgo.Describe("Check", func() {
		first, _ := chain.Stage("first")
		second, _ := chain.Stage("second")

		ginkgo.It("should allow the configured role in the right order", func() {
			err := first.Check(RoleHOS, "pending", "first_responded")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should reject the wrong role", func() {
			err := first.Check(RoleStaff, "pending", "first_responded")
			gomega.Expect(err).To(gomega.MatchError(ErrRoleNotAllowed))
		})

		ginkgo.It("should reject a stage attempted before its predecessor", func() {
			err := second.Check(RoleHR, "pending", "second_responded")
			gomega.Expect(err).To(gomega.MatchError(ErrOutOfOrder))
		})

		ginkgo.It("should reject a repeat of an already completed stage", func() {
			err := first.Check(RoleHOS, "first_responded", "first_responded")
			gomega.Expect(err).To(gomega.MatchError(ErrOutOfOrder))
		})

		ginkgo.It("should reject a result outside the stage's set", func() {
			err := first.Check(RoleHOS, "pending", "second_responded")
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidStatus))
		})

		ginkgo.It("should check role before order", func() {
			err := second.Check(RoleStaff, "pending", "second_responded")
			gomega.Expect(err).To(gomega.MatchError(ErrRoleNotAllowed))
		})
	})

	ginkgo.Describe("Result", func() {
		ginkgo.It("should return the single chain result", func() {
			first, _ := chain.Stage("first")
			gomega.Expect(first.Result()).To(gomega.Equal("first_responded"))
		})

		ginkgo.It("should return empty for a stage with no results", func() {
			gomega.Expect(Stage{}.Result()).To(gomega.BeEmpty())
		})
	})
})

var _ = ginkgo.Describe("Decision stages", func() {
	decision := Stage{
		Name:         "decision",
		RequiredRole: RoleAdmin,
		AllowedPrior: []string{"pending"},
		Results:      []string{"approve", "disapprove", "approve-without-pay"},
	}

	ginkgo.It("should accept every status in the closed set", func() {
		for _, status := range decision.Results {
			gomega.Expect(decision.Check(RoleAdmin, "pending", status)).To(gomega.Succeed())
		}
	})

	ginkgo.It("should reject a status outside the closed set", func() {
		err := decision.Check(RoleAdmin, "pending", "maybe")
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidStatus))
	})
})
