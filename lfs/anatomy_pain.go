package lfs

import (
	"regexp"
	"strings"

	"github.com/revelaction/rwe/dictionary"
	"github.com/revelaction/rwe/label"
	"github.com/revelaction/rwe/negex"
	"github.com/revelaction/rwe/ngram"
	sent "github.com/revelaction/rwe/sentence"
)

// Argument roles of the anatomy_pain relation.
const (
	RoleAnatomy = "anatomy"
	RolePain    = "pain"
)

var (
	symptoms = dictionary.NewSet("fever", "cough", "chest pain", "rigors", "nausea", "vomitting",
		"vomiting", "night sweats", "headache", "weight loss", "sob", "pressure", "palpitations",
		"shortness of breath", "abdominal pain", "constipation", "diarrhea", "muscle aches",
		"joint pains", "rash", "dysuria")

	acceptHeaders = dictionary.NewSet("CHIEF COMPLAINT", "IMPRESSION", "HISTORY OF PRESENT ILLNESS",
		"ROS", "FINAL REPORT INDICATION", "ASSESSMENT AND PLAN", "REASON FOR HOSPITALIZATION",
		"HOSPITAL COURSE", "CLINIC NOTE", "CONDITION AT DISCHARGE")

	rejectHeaders = dictionary.NewSet("PAST MEDICAL HISTORY", "DISCHARGE INSTRUCTIONS",
		"PHYSICAL EXAMINATION", "UNDERLYING MEDICAL CONDITION", "CTA CARD", "REVIEW OF SYSTEMS")

	intensity = dictionary.NewSet("sharp", "intense", "extreme", "worsening", "moderate", "minimal",
		"mild", "significant", "crushing", "severe", "excruciating", "slight", "unbearable")

	painMeds = dictionary.NewSet("aproxen", "aleve", "anaprox", "naprelan", "naprosyn", "aspirin",
		"tylenol", "ibuprofen", "motrin", "advil", "celecoxib", "celebrex", "acetaminophen",
		"codeine", "hydrocodone", "oxycodone", "oxycontin", "roxicodone", "methadone",
		"hydromorphone", "dilaudid", "exalgo", "morphine", "avinza", "kadian", "msir", "fentanyl",
		"actiq", "duragesic")

	argStopwords = dictionary.NewSet("MD", "B6", "B12")

	temporal = dictionary.NewSet("now", "recent", "current", "presently", "recently", "new")

	actions = dictionary.NewSet("radiation", "radiating", "radiate", "radiates",
		"decends", "descending", "decend")

	breaking = dictionary.NewSet(";", ",")

	instructions = []string{"seek medical attention", "go to the emergency room", "please call"}
)

var (
	hypotheticalRgx    = regexp.MustCompile(`((if|should) (you|she|he)|(she|he|you) (might|could|may)|if)(?:\s|$)`)
	deniesRgx          = regexp.MustCompile(`(denies|denied|deny)`)
	historyOfRgx       = regexp.MustCompile(`(history of)`)
	longTermHistoryRgx = regexp.MustCompile(`[0-9]{1,2}\s*[+-]*\s*year history of`)
	prnRgx             = regexp.MustCompile(`(prn|p\.r\.n\.|PRN|P\.R\.N\.|as needed|if needed)(?:\s|$)`)
	pastPerfectRgx     = regexp.MustCompile(`(had been|had)(?:\s|$)`)
	linkingRgx         = regexp.MustCompile(`there is|is experiencing`)
	wsdBackRgx         = regexp.MustCompile(`(?i)(call[s]*|c[ao]me[s]*|turn[s]*)`)
)

// LongDistance is the number of words between the arguments from which an
// attachment is considered long distance.
const LongDistance = 10

// anatomyPain holds the shared predicates of the anatomy_pain LFs.
type anatomyPain struct {
	negex *negex.NegEx
	grams *ngram.Generator
}

func (a *anatomyPain) compoundWord(c *sent.Relation) bool {
	if len(BetweenTokens(c, sent.WordsAttrib)) > 0 {
		return false
	}
	return c.Arg(RoleAnatomy).CharStart < c.Arg(RolePain).CharStart
}

func (a *anatomyPain) longDistance(c *sent.Relation) bool {
	return len(BetweenTokens(c, sent.WordsAttrib)) >= LongDistance
}

// negated uses any NegEx trigger around the head argument.
func (a *anatomyPain) negated(c *sent.Relation) bool {
	head := Head(c)
	if len(a.negex.AllNegations(head, 5)) > 0 {
		return true
	}
	return strings.ToLower(head.Sentence().Words[0]) == "no"
}

func (a *anatomyPain) hypothetical(c *sent.Relation) bool {
	return hypotheticalRgx.MatchString(LeftText(Head(c), 50))
}

func (a *anatomyPain) denies(c *sent.Relation) bool {
	return deniesRgx.MatchString(LeftText(Head(c), 50))
}

func (a *anatomyPain) historyOf(c *sent.Relation) bool {
	return historyOfRgx.MatchString(LeftText(Head(c), 5))
}

func (a *anatomyPain) longTermHistoryOf(c *sent.Relation) bool {
	return longTermHistoryRgx.MatchString(LeftText(Head(c), 10))
}

func (a *anatomyPain) proReNata(c *sent.Relation) bool {
	return prnRgx.MatchString(LeftText(Head(c), 50))
}

func (a *anatomyPain) chronicPain(c *sent.Relation, window int) bool {
	left := lower(LeftTokens(Head(c), 1))
	left = append(left, lower(LeftTokens(c.Arg(RolePain), window))...)
	for _, t := range left {
		if t == "chronic" {
			return true
		}
	}
	return false
}

// uncertain is true when the candidate is far apart, negated, hypothetical,
// as needed or denied.
func (a *anatomyPain) uncertain(c *sent.Relation) bool {
	return a.longDistance(c) || a.negated(c) || a.hypothetical(c) || a.proReNata(c) || a.denies(c)
}

func vote(v bool, l int) int {
	if v {
		return l
	}
	return 0
}

// AnatomyPain returns the LFs of anatomy_pain relations (roles anatomy and
// pain).
func AnatomyPain(n *negex.NegEx) *label.Registry[*sent.Relation] {
	a := &anatomyPain{negex: n, grams: ngram.New(ngram.DefaultNMax)}

	return label.NewRegistry[*sent.Relation]().
		MustRegister("LF_pro_re_nata", func(c *sent.Relation) int {
			return vote(a.proReNata(c) && !a.chronicPain(c, 3), label.Reject)
		}).
		MustRegister("LF_negated", func(c *sent.Relation) int {
			return vote(a.negated(c), label.Reject)
		}).
		MustRegister("LF_negex_tagged", func(c *sent.Relation) int {
			return vote(c.Arg(RolePain).Props["negated"] == 1, label.Reject)
		}).
		MustRegister("LF_hypothetical", func(c *sent.Relation) int {
			return vote(a.hypothetical(c), label.Reject)
		}).
		MustRegister("LF_denies", func(c *sent.Relation) int {
			return vote(a.denies(c), label.Reject)
		}).
		MustRegister("LF_history_of", func(c *sent.Relation) int {
			header := Header(c)
			v := a.historyOf(c) &&
				!a.longTermHistoryOf(c) &&
				!a.chronicPain(c, 3) &&
				header != "HISTORY OF PRESENT ILLNESS" && header != "PLAN"
			return vote(v, label.Reject)
		}).
		MustRegister("LF_long_term_history_of", func(c *sent.Relation) int {
			return vote(a.longTermHistoryOf(c), label.Accept)
		}).
		MustRegister("LF_compound_words", func(c *sent.Relation) int {
			return vote(a.compoundWord(c) && !a.uncertain(c) && !a.historyOf(c), label.Accept)
		}).
		MustRegister("LF_long_distance_attachment", func(c *sent.Relation) int {
			return vote(a.longDistance(c), label.Reject)
		}).
		MustRegister("LF_token_distance", func(c *sent.Relation) int {
			d := sent.TokenDistance(c.Arg(RoleAnatomy), c.Arg(RolePain))
			return vote(d >= 0 && d <= 2 && !a.uncertain(c), label.Accept)
		}).
		MustRegister("LF_accept_header", func(c *sent.Relation) int {
			v := acceptHeaders.Contains(Header(c)) &&
				!a.denies(c) && !a.negated(c) && !a.hypothetical(c) && !a.historyOf(c)
			return vote(v, label.Accept)
		}).
		MustRegister("LF_reject_header", func(c *sent.Relation) int {
			return vote(rejectHeaders.Contains(Header(c)), label.Reject)
		}).
		MustRegister("LF_family_history_header", func(c *sent.Relation) int {
			return vote(strings.Contains(Header(c), "FAMILY"), label.Reject)
		}).
		MustRegister("LF_breaking_char_inbetween", func(c *sent.Relation) int {
			return vote(containsAny(breaking, BetweenTokens(c, sent.WordsAttrib)), label.Reject)
		}).
		MustRegister("LF_chronic_pain", func(c *sent.Relation) int {
			return vote(a.chronicPain(c, 3) && !a.historyOf(c), label.Accept)
		}).
		MustRegister("LF_pain_meds", func(c *sent.Relation) int {
			return vote(containsAny(painMeds, lower(c.Sentence().Words)), label.Reject)
		}).
		MustRegister("LF_intensity", func(c *sent.Relation) int {
			left := []string{
				strings.ToLower(LeftText(Head(c), 1)),
				strings.ToLower(LeftText(c.Arg(RolePain), 1)),
			}
			return vote(containsAny(intensity, left) && !a.uncertain(c), label.Accept)
		}).
		MustRegister("LF_past_perfect_tense", func(c *sent.Relation) int {
			between := strings.Join(BetweenTokens(c, sent.WordsAttrib), " ")
			return vote(pastPerfectRgx.MatchString(between) && !a.uncertain(c), label.Reject)
		}).
		MustRegister("LF_linking_verbs", func(c *sent.Relation) int {
			tokens := lower(BetweenTokens(c, sent.WordsAttrib))
			if len(tokens) == 0 {
				return 0
			}
			between := strings.Join(tokens, " ")
			v := between == "is" || linkingRgx.MatchString(between) || tokens[len(tokens)-1] == "is"
			return vote(v && !a.uncertain(c), label.Accept)
		}).
		MustRegister("LF_action_verbs", func(c *sent.Relation) int {
			return vote(containsAny(actions, BetweenTokens(c, "lemmas")), label.Accept)
		}).
		MustRegister("LF_list_side_effects", func(c *sent.Relation) int {
			v := a.listedSymptoms(c.Sentence()) > 2 && a.compoundWord(c) && a.hypothetical(c)
			return vote(v, label.Reject)
		}).
		MustRegister("LF_instructions", func(c *sent.Relation) int {
			text := strings.ToLower(c.Sentence().Text())
			for _, phrase := range instructions {
				if strings.Contains(text, phrase) {
					return label.Reject
				}
			}
			return 0
		}).
		MustRegister("LF_stopwords", func(c *sent.Relation) int {
			v := argStopwords.Contains(c.Arg(RoleAnatomy).Text()) || argStopwords.Contains(c.Arg(RolePain).Text())
			return vote(v, label.Reject)
		}).
		MustRegister("LF_wsd_back", func(c *sent.Relation) int {
			return vote(wsdBackRgx.MatchString(LeftText(c.Arg(RoleAnatomy), 1)), label.Reject)
		}).
		MustRegister("LF_temporal_recent", func(c *sent.Relation) int {
			return vote(containsAny(temporal, lower(LeftTokens(Head(c), 5))), label.Accept)
		}).
		MustRegister("LF_non_modifier", func(c *sent.Relation) int {
			p := c.Arg(RolePain)
			prefix := p.Sentence().Substring(max(p.CharStart-4, 0), p.CharStart-1)
			return vote(strings.Contains(prefix, "non"), label.Reject)
		})
}

// listedSymptoms counts the symptoms of the sentence followed by a comma or
// a semicolon.
func (a *anatomyPain) listedSymptoms(s *sent.Sentence) int {
	text := []rune(s.Text())
	ends := map[string]int{}
	for sp := range a.grams.Apply(s) {
		t := strings.ToLower(sp.Text())
		if symptoms.Contains(t) {
			ends[t] = sp.CharEnd
		}
	}

	n := 0
	for _, end := range ends {
		if r := text[min(end+1, len(text)-1)]; r == ',' || r == ';' {
			n++
		}
	}
	return n
}
