package template_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pdfsift/pdfsift/internal/template"
)

var _ = Describe("Template Parser", func() {
	Context("a 10-K style template", func() {
		templateStr := `
// Annual report extraction
TextChunk(chunkSize=1000)

Section(match="Management's Discussion and Analysis", end_match="Quantitative and Qualitative Disclosures", threshold=0.8, as="mda") {
    TextChunk(chunkSize=500, chunkOverlap=150)
}
`

		It("parses both top-level elements", func() {
			root, err := template.Parse(templateStr)
			Expect(err).NotTo(HaveOccurred())
			Expect(root.Elements).To(HaveLen(2))

			Expect(root.Elements[0].Name).To(Equal("TextChunk"))
			size, ok := root.Elements[0].Attrs["chunkSize"].AsInt()
			Expect(ok).To(BeTrue())
			Expect(size).To(Equal(1000))

			section := root.Elements[1]
			Expect(section.Name).To(Equal("Section"))
			match, ok := section.Attrs["match"].AsString()
			Expect(ok).To(BeTrue())
			Expect(match).To(Equal("Management's Discussion and Analysis"))
			threshold, ok := section.Attrs["threshold"].AsFloat()
			Expect(ok).To(BeTrue())
			Expect(threshold).To(BeNumerically("~", 0.8))
		})

		It("nests children and links siblings", func() {
			root, err := template.Parse(templateStr)
			Expect(err).NotTo(HaveOccurred())

			first, section := root.Elements[0], root.Elements[1]
			Expect(first.Next).To(Equal(section))
			Expect(section.Prev).To(Equal(first))
			Expect(section.Parent).To(BeNil())

			Expect(section.Children).To(HaveLen(1))
			child := section.Children[0]
			Expect(child.Name).To(Equal("TextChunk"))
			Expect(child.Parent).To(Equal(section))
		})
	})

	Context("match definitions", func() {
		templateStr := `
Match<Section> MDandA {
    Text("Management's Discussion", threshold=0.9)
    Text("MD&A")
}

Section(as="MD&A", match=MDandA) {
    TextChunk(chunkSize=500)
}
`

		It("parses the definition and its clauses", func() {
			root, err := template.Parse(templateStr)
			Expect(err).NotTo(HaveOccurred())
			Expect(root.MatchDefs).To(HaveLen(1))

			def := root.MatchDefs["MDandA"]
			Expect(def).NotTo(BeNil())
			Expect(def.Target).To(Equal("Section"))
			Expect(def.Clauses).To(HaveLen(2))
			Expect(def.Clauses[0].Pattern).To(Equal("Management's Discussion"))
			Expect(def.Clauses[0].Threshold).To(BeNumerically("~", 0.9))
			Expect(def.Clauses[1].Threshold).To(BeZero())
		})

		It("resolves identifier references with the default threshold", func() {
			root, err := template.Parse(templateStr)
			Expect(err).NotTo(HaveOccurred())

			section := root.Elements[0]
			cfg, err := root.ResolveMatch(section, 0.75)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Clauses).To(HaveLen(2))
			Expect(cfg.Clauses[0].Threshold).To(BeNumerically("~", 0.9))
			Expect(cfg.Clauses[1].Threshold).To(BeNumerically("~", 0.75))
		})

		It("rejects references to undefined matches", func() {
			root, err := template.Parse(`Section(match=Missing)`)
			Expect(err).NotTo(HaveOccurred())

			_, err = root.ResolveMatch(root.Elements[0], 0.75)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("undefined match"))
		})
	})

	Context("attribute values", func() {
		It("parses booleans, identifiers and arrays", func() {
			root, err := template.Parse(`Custom(enabled=true, ref=other, tags=["a", "b", 3])`)
			Expect(err).NotTo(HaveOccurred())

			elem := root.Elements[0]
			Expect(elem.Attrs["enabled"].Kind).To(Equal(template.BoolValue))
			Expect(elem.Attrs["enabled"].Bool).To(BeTrue())
			Expect(elem.Attrs["ref"].Kind).To(Equal(template.IdentifierValue))
			Expect(elem.Attrs["ref"].Str).To(Equal("other"))

			tags := elem.Attrs["tags"]
			Expect(tags.Kind).To(Equal(template.ArrayValue))
			Expect(tags.List).To(HaveLen(3))
			Expect(tags.List[0].Str).To(Equal("a"))
			Expect(tags.List[2].Num).To(BeNumerically("~", 3))
		})

		It("handles escaped quotes in strings", func() {
			root, err := template.Parse(`Section(match="say \"hello\"")`)
			Expect(err).NotTo(HaveOccurred())
			match, _ := root.Elements[0].Attrs["match"].AsString()
			Expect(match).To(Equal(`say "hello"`))
		})
	})

	Context("malformed input", func() {
		DescribeTable("reports position-tagged errors",
			func(input, fragment string) {
				_, err := template.Parse(input)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring(fragment))
			},
			Entry("unterminated string", `Section(match="oops`, "unterminated string"),
			Entry("missing value", `Section(match=)`, "expected value"),
			Entry("unclosed body", `Section(match="x") { TextChunk()`, "unclosed element body"),
			Entry("unsupported clause", `Match<Section> M { Regex("x") }`, "unsupported match clause"),
			Entry("empty match definition", `Match<Section> M { }`, "no clauses"),
			Entry("duplicate definition", "Match<Section> M { Text(\"a\") }\nMatch<Section> M { Text(\"b\") }", "duplicate match definition"),
		)

		It("includes line and column in parse errors", func() {
			_, err := template.Parse("\n\nSection(match=)")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(HavePrefix("template:3:"))
		})
	})
})
