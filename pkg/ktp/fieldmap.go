package ktp

import (
	"strings"
	"time"
	"unicode"

	"KTPExtractor/internal/entity"
)

type FoldPolicy int

const (
	// FoldLastWrite keeps whatever detection for a class arrived last.
	FoldLastWrite FoldPolicy = iota
	// FoldHighestConfidence keeps the most confident detection per class.
	FoldHighestConfidence
)

func ParseFoldPolicy(s string) FoldPolicy {
	if strings.EqualFold(strings.TrimSpace(s), "highest_confidence") {
		return FoldHighestConfidence
	}
	return FoldLastWrite
}

func (p FoldPolicy) String() string {
	if p == FoldHighestConfidence {
		return "highest_confidence"
	}
	return "last_write"
}

// FieldMap accumulates recognized field text for one card. It is not safe
// for concurrent use; build one per image.
type FieldMap struct {
	policy     FoldPolicy
	values     map[entity.FieldClass]string
	confidence map[entity.FieldClass]float64

	tempatLahir string
	tglLahir    *time.Time

	provinsi  string
	kabupaten string
}

func NewFieldMap(policy FoldPolicy) *FieldMap {
	return &FieldMap{
		policy:     policy,
		values:     make(map[entity.FieldClass]string),
		confidence: make(map[entity.FieldClass]float64),
	}
}

// Apply routes one recognized field to its normalizer and folds the result
// into the map. The province/regency split is recomputed on every call from
// the current prov_kab value.
func (m *FieldMap) Apply(ft entity.FieldText) {
	if m.policy == FoldHighestConfidence {
		if prev, ok := m.confidence[ft.Class]; ok && prev > ft.Confidence {
			m.splitAddress()
			return
		}
	}
	m.confidence[ft.Class] = ft.Confidence
	m.values[ft.Class] = ft.Text

	m.splitAddress()

	switch ft.Class {
	case entity.FieldJK:
		m.values[ft.Class] = ResolveGender(ft.Text)
	case entity.FieldNIK:
		m.values[ft.Class] = CorrectNIK(ft.Text)
	case entity.FieldTTL:
		m.splitBirthInfo(ft.Text)
	}
}

func (m *FieldMap) Get(class entity.FieldClass) (string, bool) {
	v, ok := m.values[class]
	return v, ok
}

func (m *FieldMap) splitAddress() {
	m.provinsi, m.kabupaten = SplitAddress(m.values[entity.FieldProvKab])
}

// splitBirthInfo separates "PLACE, DD-MM-YYYY" at the first digit. Text
// without any digit leaves the birth fields untouched.
func (m *FieldMap) splitBirthInfo(text string) {
	idx := strings.IndexFunc(text, unicode.IsDigit)
	if idx < 0 {
		return
	}
	m.tempatLahir = strings.TrimSpace(text[:idx])
	m.tglLahir = nil
	if t, ok := ParseDate(strings.TrimSpace(text[idx:])); ok {
		m.tglLahir = &t
	}
}
