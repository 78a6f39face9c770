package ktp

import (
	"testing"

	"KTPExtractor/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestBuildRecord_Empty(t *testing.T) {
	rec := BuildRecord(NewFieldMap(FoldLastWrite))
	assert.Equal(t, entity.NormalizedRecord{}, rec)

	assert.Equal(t, entity.NormalizedRecord{}, BuildRecord(nil))
}

func TestBuildRecord_EndToEnd(t *testing.T) {
	m := NewFieldMap(FoldLastWrite)
	for _, ft := range []entity.FieldText{
		{Class: entity.FieldNIK, Text: "D8?1"},
		{Class: entity.FieldJK, Text: "LAKI LAKI"},
		{Class: entity.FieldTTL, Text: "JAKARTA 01-02-1990"},
		{Class: entity.FieldProvKab, Text: "KOTA BANDUNG"},
	} {
		m.Apply(ft)
	}

	rec := BuildRecord(m)
	assert.Equal(t, "0871", rec.NIK)
	assert.Equal(t, "LAKI-LAKI", rec.JenisKelamin)
	assert.Equal(t, "JAKARTA", rec.TempatLahir)
	assert.Equal(t, "01-02-1990", rec.TglLahir)
	assert.Equal(t, "KOTA BANDUNG", rec.Alamat.Kabupaten)
	assert.Equal(t, "", rec.Alamat.Provinsi)
}

func TestBuildRecord_Casing(t *testing.T) {
	m := NewFieldMap(FoldLastWrite)
	m.Apply(entity.FieldText{Class: entity.FieldNama, Text: " budi: santoso \n"})
	m.Apply(entity.FieldText{Class: entity.FieldAgama, Text: "islam"})
	m.Apply(entity.FieldText{Class: entity.FieldPerkawinan, Text: "belum kawin "})
	m.Apply(entity.FieldText{Class: entity.FieldPekerjaan, Text: "karyawan swasta"})
	m.Apply(entity.FieldText{Class: entity.FieldAlamat, Text: "jl. merdeka no 1"})
	m.Apply(entity.FieldText{Class: entity.FieldRTRW, Text: " 001/002 "})
	m.Apply(entity.FieldText{Class: entity.FieldKelDesa, Text: "sukajadi"})
	m.Apply(entity.FieldText{Class: entity.FieldKecamatan, Text: "cicendo"})
	m.Apply(entity.FieldText{Class: entity.FieldNIK, Text: " 3273l "})

	rec := BuildRecord(m)
	assert.Equal(t, "BUDI SANTOSO", rec.Nama)
	assert.Equal(t, "ISLAM", rec.Agama)
	assert.Equal(t, "BELUM KAWIN", rec.StatusPerkawinan)
	assert.Equal(t, "KARYAWAN SWASTA", rec.Pekerjaan)
	assert.Equal(t, "JL. MERDEKA NO 1", rec.Alamat.Name)
	assert.Equal(t, "001/002", rec.Alamat.RTRW)
	assert.Equal(t, "SUKAJADI", rec.Alamat.KelDesa)
	assert.Equal(t, "CICENDO", rec.Alamat.Kecamatan)
	assert.Equal(t, "32731", rec.NIK)
}

func TestFieldMap_LastWriteWins(t *testing.T) {
	m := NewFieldMap(FoldLastWrite)
	m.Apply(entity.FieldText{Class: entity.FieldNama, Text: "FIRST", Confidence: 0.9})
	m.Apply(entity.FieldText{Class: entity.FieldNama, Text: "SECOND", Confidence: 0.1})

	v, ok := m.Get(entity.FieldNama)
	assert.True(t, ok)
	assert.Equal(t, "SECOND", v)
}

func TestFieldMap_HighestConfidence(t *testing.T) {
	m := NewFieldMap(FoldHighestConfidence)
	m.Apply(entity.FieldText{Class: entity.FieldNama, Text: "FIRST", Confidence: 0.9})
	m.Apply(entity.FieldText{Class: entity.FieldNama, Text: "SECOND", Confidence: 0.1})
	m.Apply(entity.FieldText{Class: entity.FieldProvKab, Text: "JAWA BARAT KOTA BANDUNG", Confidence: 0.5})

	rec := BuildRecord(m)
	assert.Equal(t, "FIRST", rec.Nama)
	assert.Equal(t, "JAWA BARAT", rec.Alamat.Provinsi)
	assert.Equal(t, "KOTA BANDUNG", rec.Alamat.Kabupaten)
}

func TestFieldMap_BirthInfo(t *testing.T) {
	t.Run("no digit leaves fields untouched", func(t *testing.T) {
		m := NewFieldMap(FoldLastWrite)
		m.Apply(entity.FieldText{Class: entity.FieldTTL, Text: "BANDUNG, 17-08-1980"})
		m.Apply(entity.FieldText{Class: entity.FieldTTL, Text: "TEMPAT TGL LAHIR"})

		rec := BuildRecord(m)
		assert.Equal(t, "BANDUNG,", rec.TempatLahir)
		assert.Equal(t, "17-08-1980", rec.TglLahir)
	})

	t.Run("unparseable date clears previous date", func(t *testing.T) {
		m := NewFieldMap(FoldLastWrite)
		m.Apply(entity.FieldText{Class: entity.FieldTTL, Text: "BANDUNG 17-08-1980"})
		m.Apply(entity.FieldText{Class: entity.FieldTTL, Text: "garut 99"})

		rec := BuildRecord(m)
		assert.Equal(t, "GARUT", rec.TempatLahir)
		assert.Equal(t, "", rec.TglLahir)
	})
}

func TestParseFoldPolicy(t *testing.T) {
	assert.Equal(t, FoldHighestConfidence, ParseFoldPolicy("HIGHEST_CONFIDENCE"))
	assert.Equal(t, FoldLastWrite, ParseFoldPolicy("last_write"))
	assert.Equal(t, FoldLastWrite, ParseFoldPolicy(""))
	assert.Equal(t, "highest_confidence", FoldHighestConfidence.String())
}
