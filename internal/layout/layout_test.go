package layout_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"

	"github.com/pdfsift/pdfsift/internal/layout"
	"github.com/pdfsift/pdfsift/pkg/models"
)

func elem(text string, page int, x, y, size float64) models.TextElement {
	return models.TextElement{
		ID:       uuid.New(),
		Text:     text,
		FontName: "Helvetica",
		FontSize: size,
		BBox: models.BBox{
			X0: x,
			Y0: y,
			X1: x + float64(len(text))*size*0.5,
			Y1: y + size,
		},
		PageNumber: page,
	}
}

var _ = Describe("Layout", func() {
	Describe("GroupIntoLines", func() {
		It("merges elements sharing a baseline, left to right", func() {
			elements := []models.TextElement{
				elem("world", 1, 60, 700, 12),
				elem("hello", 1, 10, 700, 12),
			}

			lines := layout.GroupIntoLines(elements, 5.0)
			Expect(lines).To(HaveLen(1))
			Expect(lines[0].Text).To(Equal("hello world"))
			Expect(lines[0].Elements).To(HaveLen(2))
		})

		It("joins slightly offset baselines within the threshold", func() {
			elements := []models.TextElement{
				elem("super", 1, 10, 700, 12),
				elem("script", 1, 50, 697, 8),
			}

			lines := layout.GroupIntoLines(elements, 5.0)
			Expect(lines).To(HaveLen(1))
			// The larger font wins the line style.
			Expect(lines[0].FontSize).To(BeNumerically("~", 12))
		})

		It("splits baselines farther apart than the threshold", func() {
			elements := []models.TextElement{
				elem("first", 1, 10, 700, 12),
				elem("second", 1, 10, 680, 12),
			}

			lines := layout.GroupIntoLines(elements, 5.0)
			Expect(lines).To(HaveLen(2))
			Expect(lines[0].Text).To(Equal("first"))
			Expect(lines[1].Text).To(Equal("second"))
		})

		It("orders top of page first", func() {
			elements := []models.TextElement{
				elem("bottom", 1, 10, 100, 12),
				elem("top", 1, 10, 700, 12),
			}

			lines := layout.GroupIntoLines(elements, 5.0)
			Expect(lines[0].Text).To(Equal("top"))
			Expect(lines[1].Text).To(Equal("bottom"))
		})

		It("unions bounding boxes across a line", func() {
			elements := []models.TextElement{
				elem("ab", 1, 10, 700, 12),
				elem("cd", 1, 100, 700, 12),
			}

			lines := layout.GroupIntoLines(elements, 5.0)
			Expect(lines[0].BBox.X0).To(BeNumerically("~", 10))
			Expect(lines[0].BBox.X1).To(BeNumerically(">=", 100))
		})
	})

	Describe("GroupIntoBlocks", func() {
		It("splits blocks on large vertical gaps and orders pages", func() {
			pages := map[int][]models.TextElement{
				2: {elem("page two", 2, 10, 700, 12)},
				1: {
					elem("para one line one", 1, 10, 700, 12),
					elem("para one line two", 1, 10, 688, 12),
					elem("para two", 1, 10, 600, 12),
				},
			}

			blocks := layout.GroupIntoBlocks(pages, 5.0, 12.0)
			Expect(blocks).To(HaveLen(3))
			Expect(blocks[0].PageNumber).To(Equal(1))
			Expect(blocks[0].Lines).To(HaveLen(2))
			Expect(blocks[1].Lines).To(HaveLen(1))
			Expect(blocks[1].Lines[0].Text).To(Equal("para two"))
			Expect(blocks[2].PageNumber).To(Equal(2))
		})
	})

	Describe("Flatten", func() {
		It("returns all lines in block order", func() {
			pages := map[int][]models.TextElement{
				1: {
					elem("one", 1, 10, 700, 12),
					elem("two", 1, 10, 600, 12),
				},
			}

			blocks := layout.GroupIntoBlocks(pages, 5.0, 12.0)
			lines := layout.Flatten(blocks)
			Expect(lines).To(HaveLen(2))
			Expect(lines[0].Text).To(Equal("one"))
			Expect(lines[1].Text).To(Equal("two"))
		})
	})

	Describe("headings", func() {
		makeLines := func() []models.TextLine {
			var lines []models.TextLine
			add := func(text string, size float64) {
				lines = append(lines, models.TextLine{Text: text, FontSize: size, PageNumber: 1})
			}
			add("TITLE", 20)
			add("Subtitle", 16)
			add("Minor heading", 14)
			for i := 0; i < 10; i++ {
				add("body text", 12)
			}
			return lines
		}

		It("detects the body font size as the most common", func() {
			Expect(layout.BodyFontSize(makeLines())).To(BeNumerically("~", 12))
		})

		It("levels headings by size ratio", func() {
			headings := layout.IdentifyHeadings(makeLines())
			Expect(headings).To(HaveLen(3))
			Expect(headings[0].Text).To(Equal("TITLE"))
			Expect(headings[0].Level).To(Equal(1))
			Expect(headings[1].Level).To(Equal(2))
			Expect(headings[2].Level).To(Equal(3))
		})

		It("falls back to 12pt for empty input", func() {
			Expect(layout.BodyFontSize(nil)).To(BeNumerically("~", 12))
		})
	})
})
