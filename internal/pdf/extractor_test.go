package pdf_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	ledongthuc "github.com/ledongthuc/pdf"

	"github.com/pdfsift/pdfsift/internal/pdf"
)

func run(s string, x, y, w, size float64, font string) ledongthuc.Text {
	return ledongthuc.Text{S: s, X: x, Y: y, W: w, Font: font, FontSize: size}
}

var _ = Describe("MergeRuns", func() {
	It("joins adjacent runs on the same baseline", func() {
		runs := []ledongthuc.Text{
			run("Ris", 72, 700, 18, 12, "Times-Bold"),
			run("k", 90, 700, 6, 12, "Times-Bold"),
		}

		elements := pdf.MergeRuns(runs, 2)
		Expect(elements).To(HaveLen(1))
		Expect(elements[0].Text).To(Equal("Risk"))
		Expect(elements[0].PageNumber).To(Equal(2))
		Expect(elements[0].BBox.X0).To(BeNumerically("~", 72))
		Expect(elements[0].BBox.X1).To(BeNumerically("~", 96))
		Expect(elements[0].BBox.Y1).To(BeNumerically("~", 712))
	})

	It("splits runs separated by more than the join gap", func() {
		runs := []ledongthuc.Text{
			run("left", 72, 700, 20, 12, "Times"),
			run("right", 300, 700, 20, 12, "Times"),
		}

		elements := pdf.MergeRuns(runs, 1)
		Expect(elements).To(HaveLen(2))
		Expect(elements[0].Text).To(Equal("left"))
		Expect(elements[1].Text).To(Equal("right"))
	})

	It("splits on a baseline change", func() {
		runs := []ledongthuc.Text{
			run("above", 72, 700, 20, 12, "Times"),
			run("below", 92, 680, 20, 12, "Times"),
		}

		Expect(pdf.MergeRuns(runs, 1)).To(HaveLen(2))
	})

	It("splits on a font change", func() {
		runs := []ledongthuc.Text{
			run("plain ", 72, 700, 30, 12, "Times"),
			run("bold", 102, 700, 20, 12, "Times-Bold"),
		}

		elements := pdf.MergeRuns(runs, 1)
		Expect(elements).To(HaveLen(2))
		Expect(elements[1].FontName).To(Equal("Times-Bold"))
	})

	It("drops empty runs", func() {
		runs := []ledongthuc.Text{
			run("", 72, 700, 0, 12, "Times"),
			run("text", 72, 700, 20, 12, "Times"),
		}

		elements := pdf.MergeRuns(runs, 1)
		Expect(elements).To(HaveLen(1))
		Expect(elements[0].Text).To(Equal("text"))
	})

	It("returns nothing for no runs", func() {
		Expect(pdf.MergeRuns(nil, 1)).To(BeEmpty())
	})
})
