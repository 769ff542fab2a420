package request

import (
	"github.com/go-playground/validator/v10"

	"github.com/yumyai/methmmdb/pkg/model"
)

var validate = validator.New()

// Body of POST /search. Sequence is a pointer so that a missing field and an
// empty string are reported differently.
type SearchRequest struct {
	Sequence *string `json:"sequence" validate:"required"`
}

// Validate checks the request and trims the sequence in place. Errors are
// *model.SequenceError and safe to return to the client.
func (r *SearchRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &model.SequenceError{Msg: "sequence: field required"}
	}

	seq, err := model.ValidateSequence(*r.Sequence)
	if err != nil {
		return err
	}
	*r.Sequence = seq
	return nil
}
