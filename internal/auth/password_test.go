package auth

import (
	"log/slog"
	"os"
	"strings"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = ginkgo.Describe("Password hashing", func() {
	ginkgo.It("should verify the password it hashed", func() {
		encoded, err := HashPassword("s3cret-password", 1000)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(VerifyPassword("s3cret-password", encoded)).To(gomega.Succeed())
	})

	ginkgo.It("should never store the plaintext", func() {
		encoded, err := HashPassword("s3cret-password", 1000)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(encoded).ToNot(gomega.ContainSubstring("s3cret-password"))
	})

	ginkgo.It("should encode algorithm, iterations, salt and key", func() {
		encoded, err := HashPassword("whatever", 1234)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		parts := strings.Split(encoded, "$")
		gomega.Expect(parts).To(gomega.HaveLen(4))
		gomega.Expect(parts[0]).To(gomega.Equal("pbkdf2_sha256"))
		gomega.Expect(parts[1]).To(gomega.Equal("1234"))
	})

	ginkgo.It("should salt each hash differently", func() {
		first, err := HashPassword("same-password", 1000)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		second, err := HashPassword("same-password", 1000)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(first).ToNot(gomega.Equal(second))
	})

	ginkgo.It("should reject a wrong password", func() {
		encoded, err := HashPassword("right", 1000)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(VerifyPassword("wrong", encoded)).ToNot(gomega.Succeed())
	})

	ginkgo.It("should use the default iteration count when none is given", func() {
		encoded, err := HashPassword("whatever", 0)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(strings.Split(encoded, "$")[1]).To(gomega.Equal("29000"))
	})

	ginkgo.It("should reject malformed stored hashes", func() {
		gomega.Expect(VerifyPassword("x", "not-a-hash")).To(gomega.MatchError(ErrMalformedHash))
		gomega.Expect(VerifyPassword("x", "bcrypt$10$abc$def")).To(gomega.MatchError(ErrMalformedHash))
	})
})
