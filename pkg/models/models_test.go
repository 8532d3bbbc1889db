package models_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pdfsift/pdfsift/pkg/models"
)

var _ = Describe("BBox", func() {
	box := models.BBox{X0: 72, Y0: 700, X1: 172, Y1: 712}

	It("reports width and height", func() {
		Expect(box.Width()).To(BeNumerically("~", 100))
		Expect(box.Height()).To(BeNumerically("~", 12))
	})

	It("unions to the covering box", func() {
		other := models.BBox{X0: 50, Y0: 650, X1: 120, Y1: 705}
		u := box.Union(other)
		Expect(u).To(Equal(models.BBox{X0: 50, Y0: 650, X1: 172, Y1: 712}))
	})

	It("formats as a coordinate tuple", func() {
		Expect(box.String()).To(Equal("(72.00, 700.00, 172.00, 712.00)"))
	})
})

var _ = Describe("Chunk", func() {
	It("serializes with snake_case keys", func() {
		data, err := json.Marshal(models.Chunk{
			Text:       "risk line one",
			Metadata:   map[string]string{"section": "risk"},
			ChunkIndex: 2,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(MatchJSON(`{
			"text": "risk line one",
			"metadata": {"section": "risk"},
			"chunk_index": 2
		}`))
	})
})
