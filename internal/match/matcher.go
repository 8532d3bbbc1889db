// Package match aligns a parsed template against an indexed document.
// Alignment is two-pass: sections claim their boundaries first, then text
// chunks are assigned to the content partitions around and between them.
package match

import (
	"sort"

	"github.com/pdfsift/pdfsift/internal/index"
	"github.com/pdfsift/pdfsift/internal/template"
	"github.com/pdfsift/pdfsift/pkg/logger"
	"github.com/pdfsift/pdfsift/pkg/models"
)

type Config struct {
	DefaultThreshold float64
}

// Boundaries are line positions in reading order. Start is the section's
// heading line; content runs in (Start, End). When the template gave no
// end_match, End is the edge of the search space and HasEnd is false.
type Boundaries struct {
	Start  int
	End    int
	HasEnd bool
}

// ContentMatch is one aligned template element with the lines it claimed.
type ContentMatch struct {
	Element  *template.Element
	Lines    []models.TextLine
	Children []*ContentMatch
	Metadata map[string]string
	Bounds   *Boundaries
}

type candidate struct {
	pos   int
	score float64
}

type Matcher struct {
	root   *template.Root
	ix     *index.DocumentIndex
	cfg    Config
	logger *logger.Logger
}

func New(root *template.Root, ix *index.DocumentIndex, cfg Config, log *logger.Logger) *Matcher {
	if cfg.DefaultThreshold == 0 {
		cfg.DefaultThreshold = 0.75
	}
	return &Matcher{root: root, ix: ix, cfg: cfg, logger: log}
}

// Align matches the template's top-level elements against the whole
// document.
func (m *Matcher) Align() []*ContentMatch {
	return m.alignElements(m.root.Elements, 0, m.ix.Len(), nil)
}

func (m *Matcher) alignElements(elements []*template.Element, searchStart, maxBound int, inherited map[string]string) []*ContentMatch {
	if len(elements) == 0 || searchStart >= maxBound {
		return nil
	}

	// Pass 1: sections partition the content space. Each section searches
	// after the previous one's end.
	sectionMatches := make(map[*template.Element]*ContentMatch)
	var partitions []Boundaries

	cursor := searchStart
	for _, elem := range elements {
		if !elem.IsSection() {
			continue
		}
		sm := m.matchSection(elem, cursor, maxBound, inherited)
		if sm == nil {
			m.logger.Debug("No match for section %q", elem.Name)
			continue
		}
		m.logger.Debug("Section %q matched lines %d..%d on page %d",
			elem.Name, sm.Bounds.Start, sm.Bounds.End, m.ix.Line(sm.Bounds.Start).PageNumber)
		sectionMatches[elem] = sm
		partitions = append(partitions, *sm.Bounds)
		cursor = sm.Bounds.End
		if sm.Bounds.HasEnd {
			cursor++
		}
	}

	// Pass 2: text chunks fill the space before the first matched section
	// or after the last one; with no matched sections they take the whole
	// range. Sibling links decide the side: a chunk with a matched section
	// among its earlier siblings goes after, anything else before.
	chunkMatches := make(map[*template.Element]*ContentMatch)

	for _, elem := range elements {
		if !elem.IsTextChunk() {
			continue
		}

		start, end := searchStart, maxBound
		if len(partitions) > 0 {
			if followsMatchedSection(elem, sectionMatches) {
				last := partitions[len(partitions)-1]
				start = last.End
				if last.HasEnd {
					start++
				}
			} else {
				end = partitions[0].Start
			}
		}

		lines := m.ix.Slice(start, end)
		if len(lines) == 0 {
			m.logger.Debug("Text chunk claimed no lines")
			continue
		}

		chunkMatches[elem] = &ContentMatch{
			Element:  elem,
			Lines:    lines,
			Metadata: copyMetadata(inherited),
		}
	}

	// Results keep template order.
	var results []*ContentMatch
	for _, elem := range elements {
		if cm, ok := sectionMatches[elem]; ok {
			results = append(results, cm)
		} else if cm, ok := chunkMatches[elem]; ok {
			results = append(results, cm)
		}
	}

	return results
}

func (m *Matcher) matchSection(elem *template.Element, searchStart, maxBound int, inherited map[string]string) *ContentMatch {
	matchCfg, err := m.root.ResolveMatch(elem, m.cfg.DefaultThreshold)
	if err != nil {
		m.logger.Warn("Skipping section %q: %v", elem.Name, err)
		return nil
	}

	start, ok := m.bestCandidate(matchCfg.Clauses, searchStart, maxBound, -1)
	if !ok {
		return nil
	}

	bounds := Boundaries{Start: start.pos, End: maxBound}
	if endAttr, exists := elem.Attrs["end_match"]; exists {
		pattern, isString := endAttr.AsString()
		if !isString {
			m.logger.Warn("Section %q end_match is not a string", elem.Name)
			return nil
		}
		threshold := matchCfg.Clauses[0].Threshold
		clauses := []template.MatchClause{{Pattern: pattern, Threshold: threshold}}
		end, found := m.bestCandidate(clauses, start.pos+1, maxBound, start.pos)
		if found {
			bounds.End = end.pos
			bounds.HasEnd = true
		}
	}

	metadata := copyMetadata(inherited)
	metadata["section_name"] = elem.Name
	if alias, exists := elem.Attrs["as"]; exists {
		if s, isString := alias.AsString(); isString {
			metadata["section"] = s
		}
	}

	result := &ContentMatch{
		Element:  elem,
		Lines:    m.ix.Slice(bounds.Start+1, bounds.End),
		Metadata: metadata,
		Bounds:   &bounds,
	}

	if len(elem.Children) > 0 {
		result.Children = m.alignElements(elem.Children, bounds.Start+1, bounds.End, metadata)
	}

	return result
}

// bestCandidate fuzzy-matches every clause in [searchStart, maxBound) and
// returns the highest-scoring boundary candidate. prevPos is the position
// of the already-fixed start marker when searching for an end marker, or
// -1.
func (m *Matcher) bestCandidate(clauses []template.MatchClause, searchStart, maxBound int, prevPos int) (candidate, bool) {
	var candidates []candidate

	for _, clause := range clauses {
		for _, tm := range m.ix.FindTextMatches(clause.Pattern, clause.Threshold, searchStart) {
			if tm.Index >= maxBound {
				continue
			}
			candidates = append(candidates, candidate{
				pos:   tm.Index,
				score: m.scoreCandidate(tm.Index, tm.Score, prevPos),
			})
		}
	}

	if len(candidates) == 0 {
		return candidate{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	return candidates[0], true
}

// scoreCandidate layers typographic evidence on top of the fuzzy text
// score: statistically large fonts and top-of-page placement both suggest
// a heading, and an end marker on a different page than the start marker
// suggests a section of real extent.
func (m *Matcher) scoreCandidate(pos int, base float64, prevPos int) float64 {
	score := base
	line := m.ix.Line(pos)
	features := FeaturesFor(line, m.ix)

	if features.FontZScore > 1.5 {
		score += 0.3
	}
	if features.PositionPercentileY < 0.15 {
		score += 0.2
	}
	if prevPos >= 0 && m.ix.Line(prevPos).PageNumber != line.PageNumber {
		score += 0.2
	}

	return score
}

// followsMatchedSection walks the chunk's earlier siblings looking for a
// section that claimed a partition.
func followsMatchedSection(elem *template.Element, matched map[*template.Element]*ContentMatch) bool {
	for prev := elem.Prev; prev != nil; prev = prev.Prev {
		if _, ok := matched[prev]; ok {
			return true
		}
	}
	return false
}

func copyMetadata(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src)+2)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
