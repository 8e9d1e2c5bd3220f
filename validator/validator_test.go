package validator

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-yogan-singleton/errcode"
)

var errInvalid = errcode.New(99, 1, "test", "error.test.invalid", "invalid input")

type inner struct {
	Path string
}

type request struct {
	Name  string
	Inner inner
	other error
}

func (r request) Validate() error {
	if r.other != nil {
		return r.other
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Inner, validation.By(func(value interface{}) error {
			in := value.(inner)
			return validation.ValidateStruct(&in, validation.Field(&in.Path, validation.Required))
		})),
	)
}

func TestValidate_FieldErrors(t *testing.T) {
	err := Validate(request{}, errInvalid)
	require.Error(t, err)
	assert.ErrorIs(t, err, errInvalid)
	assert.Equal(t, map[string]string{
		"Name":       "cannot be blank",
		"Inner.Path": "cannot be blank",
	}, Fields(err))
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(request{Name: "x", Inner: inner{Path: "a.jar"}}, errInvalid))
}

func TestValidate_OtherError(t *testing.T) {
	boom := errors.New("boom")
	err := Validate(request{other: boom}, errInvalid)
	assert.ErrorIs(t, err, errInvalid)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, Fields(err))
}

func TestFields_ForeignError(t *testing.T) {
	assert.Nil(t, Fields(errors.New("plain")))
}
