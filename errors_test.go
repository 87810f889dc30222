package sequent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	t.Run("with processor", func(t *testing.T) {
		err := &Error{
			Op:        "Engine.Learn",
			Kind:      KindValidation,
			Processor: "p1",
			Err:       ErrEmptySequence,
		}
		assert.Equal(t, "sequent: Engine.Learn (validation) [processor p1]: knowledge: cannot learn an empty sequence", err.Error())
	})

	t.Run("without processor", func(t *testing.T) {
		err := &Error{
			Op:   "New",
			Kind: KindConfiguration,
			Err:  ErrInvalidConfiguration,
		}
		assert.Equal(t, "sequent: New (configuration): invalid configuration", err.Error())
	})
}

func TestErrorUnwrapping(t *testing.T) {
	wrapped := opError("Engine.Model", KindNotFound, "p1", ErrModelNotFound)
	require.Error(t, wrapped)

	assert.True(t, errors.Is(wrapped, ErrModelNotFound))

	var structured *Error
	require.True(t, errors.As(wrapped, &structured))
	assert.Equal(t, "Engine.Model", structured.Op)
	assert.Equal(t, KindNotFound, structured.Kind)
	assert.Equal(t, "p1", structured.Processor)
}

func TestOpErrorNilPassthrough(t *testing.T) {
	assert.NoError(t, opError("Engine.Observe", KindStorage, "p1", nil))
}
