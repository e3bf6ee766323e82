package session

import (
	"errors"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"transcheck/internal/api"
)

// ValidatePayload checks an assembled TestResult right before
// submission. It is a second line behind the ordered form checks and
// catches payloads built outside the normal form path.
func ValidatePayload(tr api.TestResult) error {
	return validation.ValidateStruct(&tr,
		validation.Field(&tr.Outcome, validation.Required,
			validation.In(string(OutcomeSuccess), string(OutcomePartial), string(OutcomeFailure))),
		validation.Field(&tr.Accuracy, validation.Required, validation.By(accuracyRange)),
		validation.Field(&tr.TestedBy, validation.Required),
		validation.Field(&tr.SessionID, validation.Required, is.UUID),
		validation.Field(&tr.Timestamp, validation.Required, validation.Date(time.RFC3339)),
	)
}

func accuracyRange(value interface{}) error {
	s, _ := value.(string)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("must be a valid number")
	}
	if n < 0 || n > 100 {
		return errors.New("must be between 0 and 100")
	}
	return nil
}
