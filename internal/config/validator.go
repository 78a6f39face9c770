package config

import (
	"KTPExtractor/internal/api/ktp"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

func NewValidator() *validator.Validate {
	validate := validator.New()
	if err := ktp.RegisterValidations(validate); err != nil {
		logrus.Fatalf("failed to register validations: %v", err)
	}
	return validate
}
