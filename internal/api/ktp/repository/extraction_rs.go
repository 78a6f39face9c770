package ktpRepository

import (
	"KTPExtractor/internal/entity"
	contextPkg "KTPExtractor/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var ErrExtractionNotFound = errors.New("ktp extraction not found")

type KTPExtractionDB struct {
	ID          string          `db:"id"`
	RequestID   sql.NullString  `db:"request_id"`
	Engine      string          `db:"engine"`
	SkewAngle   float64         `db:"skew_angle"`
	NIK         sql.NullString  `db:"nik"`
	Record      []byte          `db:"record"`
	TimeElapsed sql.NullFloat64 `db:"time_elapsed"`
	ImageURL    sql.NullString  `db:"image_url"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r *extractionRepository) CreateExtraction(c context.Context, extraction entity.KTPExtraction) error {
	requestID := contextPkg.GetRequestID(c)

	record, err := jsoniter.Marshal(extraction.Record)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to encode KTP record")
		return err
	}

	createdAt := extraction.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	argsKV := map[string]interface{}{
		"id":           extraction.ID,
		"request_id":   nullString(extraction.RequestID),
		"engine":       extraction.Engine,
		"skew_angle":   extraction.SkewAngle,
		"nik":          nullString(extraction.Record.NIK),
		"record":       record,
		"time_elapsed": extraction.TimeElapsed,
		"image_url":    nullString(extraction.ImageURL),
		"created_at":   createdAt,
	}

	query, args, err := sqlx.Named(queryCreateExtraction, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateExtraction")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when storing KTP extraction")
		return err
	}

	return nil
}

func (r *extractionRepository) GetExtractionByID(c context.Context, id string) (entity.KTPExtraction, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetExtractionByID, map[string]interface{}{"id": id})
	if err != nil {
		return entity.KTPExtraction{}, err
	}
	query = r.q.Rebind(query)

	var row KTPExtractionDB
	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.KTPExtraction{}, ErrExtractionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when fetching KTP extraction")
		return entity.KTPExtraction{}, err
	}

	return row.toEntity()
}

func (r *extractionRepository) GetExtractionsByNIK(c context.Context, nik string) ([]entity.KTPExtraction, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetExtractionsByNIK, map[string]interface{}{"nik": nik})
	if err != nil {
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []KTPExtractionDB
	if err := r.q.SelectContext(c, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing KTP extractions")
		return nil, err
	}

	extractions := make([]entity.KTPExtraction, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		extractions = append(extractions, e)
	}

	return extractions, nil
}

func (row KTPExtractionDB) toEntity() (entity.KTPExtraction, error) {
	var record entity.NormalizedRecord
	if len(row.Record) > 0 {
		if err := jsoniter.Unmarshal(row.Record, &record); err != nil {
			return entity.KTPExtraction{}, err
		}
	}

	return entity.KTPExtraction{
		ID:          row.ID,
		RequestID:   row.RequestID.String,
		Engine:      row.Engine,
		SkewAngle:   row.SkewAngle,
		Record:      record,
		TimeElapsed: row.TimeElapsed.Float64,
		ImageURL:    row.ImageURL.String,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
