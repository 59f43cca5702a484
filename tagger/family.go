package tagger

import (
	"regexp"

	sent "github.com/revelaction/rwe/sentence"
)

// Subject values of props["subject"].
const (
	SubjectPatient = "patient"
	SubjectOther   = "family/other"
)

// familyRule votes other (positive) when rgx matches the left window of the
// span, or the whole sentence when sentence is set. miss is the vote
// without a match.
type familyRule struct {
	rgx      *regexp.Regexp
	sentence bool
	miss     int
}

var familyRules = []familyRule{
	// relatives, the only rule voting patient
	{rgx: regexp.MustCompile(`(?i)\b(((grand)*(mother|father)|grand(m|p)a)(['’]*s)*|((parent|(daught|sist|broth)er|son|cousin)(['’]*s)*))\b`), miss: negative},
	// spouse
	{rgx: regexp.MustCompile(`(?i)\b(spouse|wife|husband)\b`)},
	// social
	{rgx: regexp.MustCompile(`(?i)\b(friend(s)*|roomate(s)*|passanger(s)*)\b`)},
	// family history header
	{rgx: regexp.MustCompile(`(?i)\bfamily (history\s*:|hx\b)`), sentence: true},
	{rgx: regexp.MustCompile(`(?i)\bfamily (history of|hx)`)},
	{rgx: regexp.MustCompile(`(?i)\bdonor\b`), sentence: true},
}

// Family sets props["subject"] on the spans of the target layers to
// SubjectPatient or SubjectOther when a relative, spouse, friend, donor or
// family history context surrounds them.
type Family struct {
	Targets   []string
	Window    int
	Reduction Reduction
}

func NewFamily(targets ...string) *Family {
	return &Family{Targets: targets, Window: 6, Reduction: ReduceOr}
}

func (t *Family) Tag(doc *sent.Document) error {
	for i, s := range doc.Sentences {
		text := s.Text()
		for _, sp := range targetSpans(doc, i, t.Targets) {
			left := sent.LeftSpan(sp, t.Window).Text()

			votes := make([]int, len(familyRules))
			for k, r := range familyRules {
				in := left
				if r.sentence {
					in = text
				}

				votes[k] = r.miss
				if in != "" && r.rgx.MatchString(in) {
					votes[k] = positive
				}
			}

			v, ok := reduce(votes, t.Reduction)
			if !ok {
				continue
			}

			sp.Props["subject"] = SubjectPatient
			if v == 1 {
				sp.Props["subject"] = SubjectOther
			}
		}
	}
	return nil
}
