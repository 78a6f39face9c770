package entity

import "time"

type FieldClass string

const (
	FieldNIK        FieldClass = "nik"
	FieldNama       FieldClass = "nama"
	FieldTTL        FieldClass = "ttl"
	FieldJK         FieldClass = "jk"
	FieldAgama      FieldClass = "agama"
	FieldPerkawinan FieldClass = "perkawinan"
	FieldPekerjaan  FieldClass = "pekerjaan"
	FieldAlamat     FieldClass = "alamat"
	FieldRTRW       FieldClass = "rt_rw"
	FieldKelDesa    FieldClass = "kel_desa"
	FieldKecamatan  FieldClass = "kecamatan"
	FieldProvKab    FieldClass = "prov_kab"
)

var fieldClasses = map[FieldClass]struct{}{
	FieldNIK:        {},
	FieldNama:       {},
	FieldTTL:        {},
	FieldJK:         {},
	FieldAgama:      {},
	FieldPerkawinan: {},
	FieldPekerjaan:  {},
	FieldAlamat:     {},
	FieldRTRW:       {},
	FieldKelDesa:    {},
	FieldKecamatan:  {},
	FieldProvKab:    {},
}

func ParseFieldClass(label string) (FieldClass, bool) {
	c := FieldClass(label)
	_, ok := fieldClasses[c]
	return c, ok
}

type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

type RawDetection struct {
	Class      FieldClass  `json:"class_name"`
	Box        BoundingBox `json:"bbox"`
	Confidence float64     `json:"conf"`
}

type FieldText struct {
	Class      FieldClass
	Text       string
	Confidence float64
}

type Alamat struct {
	Name      string `json:"name"`
	RTRW      string `json:"rt_rw"`
	KelDesa   string `json:"kel_desa"`
	Kecamatan string `json:"kecamatan"`
	Kabupaten string `json:"kabupaten"`
	Provinsi  string `json:"provinsi"`
}

type NormalizedRecord struct {
	NIK              string `json:"nik"`
	Nama             string `json:"nama"`
	TempatLahir      string `json:"tempat_lahir"`
	TglLahir         string `json:"tgl_lahir"`
	JenisKelamin     string `json:"jenis_kelamin"`
	Agama            string `json:"agama"`
	StatusPerkawinan string `json:"status_perkawinan"`
	Pekerjaan        string `json:"pekerjaan"`
	Alamat           Alamat `json:"alamat"`
}

type KTPExtraction struct {
	ID          string           `json:"id"`
	RequestID   string           `json:"request_id"`
	Engine      string           `json:"engine"`
	SkewAngle   float64          `json:"skew_angle"`
	Record      NormalizedRecord `json:"record"`
	TimeElapsed float64          `json:"time_elapsed"`
	ImageURL    string           `json:"image_url"`
	CreatedAt   time.Time        `json:"created_at"`
}
