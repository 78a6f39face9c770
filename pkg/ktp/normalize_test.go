package ktp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCorrectNIK(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "mixed confusions", in: "D8?1", want: "0871"},
		{name: "one-like characters", in: "!l)L|]", want: "111111"},
		{name: "lowercase b and uppercase B", in: "b3B", want: "638"},
		{name: "clean digits untouched", in: "3201234567890001", want: "3201234567890001"},
		{name: "other letters kept", in: "32O1", want: "32O1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CorrectNIK(tt.in))
		})
	}
}

func TestResolveGender(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "exact female", in: "PEREMPUAN", want: GenderFemale},
		{name: "one edit from male", in: "LAKI LAKI", want: GenderMale},
		{name: "lowercase male", in: "laki-laki", want: GenderMale},
		{name: "noisy female", in: "PEREMPUAM", want: GenderFemale},
		{name: "equal distance resolves female", in: "", want: GenderFemale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveGender(tt.in))
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   time.Time
		wantOK bool
	}{
		{name: "dash separated", in: "01-02-2020", want: date(2020, 2, 1), wantOK: true},
		{name: "slash separated", in: "1/02/1990", want: date(1990, 2, 1), wantOK: true},
		{name: "dot separated", in: "17.08.1945", want: date(1945, 8, 17), wantOK: true},
		{name: "surrounding noise", in: ": 05-11-1987 ..", want: date(1987, 11, 5), wantOK: true},
		{name: "alternate literal format", in: "2020 03-15", want: date(2020, 3, 15), wantOK: true},
		{name: "alternate format with year zero", in: "0000 03-15", wantOK: false},
		{name: "invalid calendar date", in: "32-13-2020", wantOK: false},
		{name: "mixed separators fall to loose pattern", in: "05-06/19", want: date(19, 6, 5), wantOK: true},
		{name: "loose year above 31 rejected", in: "5-6-40", wantOK: false},
		{name: "loose year within bound accepted", in: "5-6-31", want: date(31, 6, 5), wantOK: true},
		{name: "thirty-first of a thirty day month", in: "31-04-2001", wantOK: false},
		{name: "no digits", in: "JAKARTA", wantOK: false},
		{name: "empty", in: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			}
		})
	}
}

func TestParseDate_EarliestSeparatorWins(t *testing.T) {
	got, ok := ParseDate("12.03.1999 / 01-01-2000")
	assert.True(t, ok)
	assert.Equal(t, "12-03-1999", got.Format(DateLayout))
}

func TestSplitAddress(t *testing.T) {
	tests := []struct {
		name          string
		in            string
		wantProvinsi  string
		wantKabupaten string
	}{
		{name: "kabupaten only", in: "KABUPATEN BANDUNG", wantProvinsi: "", wantKabupaten: "KABUPATEN BANDUNG"},
		{name: "jakarta", in: "DKI JAKARTA PUSAT", wantProvinsi: "PROVINSI DKI JAKARTA", wantKabupaten: "PUSAT"},
		{name: "province only", in: "JAWA BARAT", wantProvinsi: "JAWA BARAT", wantKabupaten: ""},
		{name: "province and kota", in: "PROVINSI JAWA BARAT KOTA  BANDUNG ", wantProvinsi: "PROVINSI JAWA BARAT", wantKabupaten: "KOTA BANDUNG"},
		{name: "kota takes precedence over jakarta", in: "DKI JAKARTA KOTA JAKARTA SELATAN", wantProvinsi: "DKI JAKARTA", wantKabupaten: "KOTA JAKARTA SELATAN"},
		{name: "empty", in: "", wantProvinsi: "", wantKabupaten: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provinsi, kabupaten := SplitAddress(tt.in)
			assert.Equal(t, tt.wantProvinsi, provinsi)
			assert.Equal(t, tt.wantKabupaten, kabupaten)
		})
	}
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}
