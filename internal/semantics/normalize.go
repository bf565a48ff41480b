package semantics

import (
	"strings"
)

// CanonicalKey is (agent_norm, verb_lemma, patient_norm): spec.md
// §4.10's equivalence key for collapsing active/passive phrasings of the
// same commitment.
type CanonicalKey struct {
	Agent   string
	Verb    string
	Patient string
}

// String renders the key for logging and map-grouping.
func (k CanonicalKey) String() string {
	return k.Agent + "|" + k.Verb + "|" + k.Patient
}

// Normalize builds the canonical key for a frame. Patient prefers Theme
// over Patient, matching frame-filling priority: a transfer verb's
// direct object is the thing transferred either way, regardless of
// which slot BuildFrame assigned it to.
func Normalize(frame Frame) CanonicalKey {
	patient := ""
	switch {
	case frame.Theme != nil:
		patient = frame.Theme.Text
	case frame.Patient != nil:
		patient = frame.Patient.Text
	}
	return CanonicalKey{
		Agent:   normalizeText(frame.Agent.Text),
		Verb:    normalizeText(frame.Verb),
		Patient: normalizeText(patient),
	}
}

func normalizeText(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(t, article) {
			t = strings.TrimSpace(t[len(article):])
			break
		}
	}
	return t
}

// Equivalent reports whether two frames express the same commitment
// under different surface voice (spec.md §4.10).
func Equivalent(frameA, frameB Frame) bool {
	return Normalize(frameA) == Normalize(frameB)
}
