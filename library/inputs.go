package library

import (
	"errors"
	"strings"
	"time"

	"Gin_postgres_redis_library/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// AcceptBorrowInput binds a concrete copy to a waiting request.
type AcceptBorrowInput struct {
	InstanceID string `json:"instanceId" validate:"required"`
	Note       string `json:"note" validate:"max=255"`
}

func (in AcceptBorrowInput) Validate() error { return check(in) }

type MarkTakenInput struct {
	TakenDate time.Time `json:"takenDate" validate:"required"`
	DueDate   time.Time `json:"dueDate" validate:"required,gtfield=TakenDate"`
	Note      string    `json:"note" validate:"max=255"`
}

func (in MarkTakenInput) Validate() error { return check(in) }

// MarkReturnedInput defaults ReturnedDate to now when zero.
type MarkReturnedInput struct {
	ReturnedDate time.Time `json:"returnedDate"`
}

func (in MarkReturnedInput) Validate() error { return nil }

type CreateDonationInput struct {
	DonorID     string                `json:"donorId" validate:"required"`
	BookID      string                `json:"bookId" validate:"required"`
	Status      models.InstanceStatus `json:"status" validate:"omitempty,oneof=Available Reserved Taken"`
	Note        string                `json:"note" validate:"max=255"`
	ImgURL      string                `json:"imgUrl" validate:"omitempty,url"`
	DonatedDate *time.Time            `json:"donatedDate"`
}

func (in CreateDonationInput) Validate() error { return check(in) }

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return InvalidInputf("invalid input: %v", err)
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fieldMessage(fe))
	}
	return InvalidInputf("%s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gtfield":
		return fe.Field() + " must be after " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param()
	case "max":
		return fe.Field() + " is too long"
	}
	return fe.Field() + " is invalid"
}
