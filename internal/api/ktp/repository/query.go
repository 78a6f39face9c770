package ktpRepository

const (
	queryCreateExtraction = `
		INSERT INTO ktp_extractions (
			id,
			request_id,
			engine,
			skew_angle,
			nik,
			record,
			time_elapsed,
			image_url,
			created_at
		) VALUES (
			:id,
			:request_id,
			:engine,
			:skew_angle,
			:nik,
			:record,
			:time_elapsed,
			:image_url,
			:created_at
		)
	`

	queryGetExtractionByID = `
		SELECT
			id,
			request_id,
			engine,
			skew_angle,
			nik,
			record,
			time_elapsed,
			image_url,
			created_at
		FROM ktp_extractions
		WHERE id = :id
	`

	queryGetExtractionsByNIK = `
		SELECT
			id,
			request_id,
			engine,
			skew_angle,
			nik,
			record,
			time_elapsed,
			image_url,
			created_at
		FROM ktp_extractions
		WHERE nik = :nik
		ORDER BY created_at DESC
	`
)
