package utils_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pdfsift/pdfsift/pkg/utils"
)

var _ = Describe("Hashing", func() {
	Describe("ContentHash", func() {
		It("is deterministic", func() {
			Expect(utils.ContentHash("hello")).To(Equal(utils.ContentHash("hello")))
		})

		It("is a known sha256 digest", func() {
			Expect(utils.ContentHash("hello")).To(
				Equal("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"))
		})

		It("differs for different content", func() {
			Expect(utils.ContentHash("a")).NotTo(Equal(utils.ContentHash("b")))
		})
	})

	Describe("FileHash", func() {
		It("matches the content hash of the file's bytes", func() {
			dir, err := os.MkdirTemp("", "pdfsift-hash-*")
			Expect(err).NotTo(HaveOccurred())
			defer os.RemoveAll(dir)

			path := filepath.Join(dir, "doc.pdf")
			Expect(os.WriteFile(path, []byte("hello"), 0644)).To(Succeed())

			hash, err := utils.FileHash(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(hash).To(Equal(utils.ContentHash("hello")))
		})

		It("fails for a missing file", func() {
			_, err := utils.FileHash("no-such-file")
			Expect(err).To(HaveOccurred())
		})
	})
})
