package ktp

import (
	"strings"

	"KTPExtractor/internal/entity"
)

// BuildRecord produces the final record. Every field is present; classes
// that were never detected come out as empty strings.
func BuildRecord(m *FieldMap) entity.NormalizedRecord {
	if m == nil {
		m = NewFieldMap(FoldLastWrite)
	}

	upper := func(class entity.FieldClass) string {
		return strings.TrimSpace(strings.ToUpper(m.values[class]))
	}

	tgl := ""
	if m.tglLahir != nil {
		tgl = m.tglLahir.Format(DateLayout)
	}

	return entity.NormalizedRecord{
		NIK:              strings.TrimSpace(m.values[entity.FieldNIK]),
		Nama:             strings.ReplaceAll(upper(entity.FieldNama), ":", ""),
		TempatLahir:      strings.TrimSpace(strings.ToUpper(m.tempatLahir)),
		TglLahir:         tgl,
		JenisKelamin:     upper(entity.FieldJK),
		Agama:            upper(entity.FieldAgama),
		StatusPerkawinan: upper(entity.FieldPerkawinan),
		Pekerjaan:        upper(entity.FieldPekerjaan),
		Alamat: entity.Alamat{
			Name:      upper(entity.FieldAlamat),
			RTRW:      strings.TrimSpace(m.values[entity.FieldRTRW]),
			KelDesa:   upper(entity.FieldKelDesa),
			Kecamatan: upper(entity.FieldKecamatan),
			Kabupaten: strings.TrimSpace(strings.ToUpper(m.kabupaten)),
			Provinsi:  strings.TrimSpace(strings.ToUpper(m.provinsi)),
		},
	}
}
