package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	err := Errorf(CompileError, "compile vertex shader", "ERROR: 0:3: syntax error")
	assert.Equal(t, "compile vertex shader: ERROR: 0:3: syntax error", err.Error())

	wrapped := &Error{Kind: MissingCapabilityError, Op: "initialize GLFW", Err: errors.New("no display")}
	assert.Equal(t, "initialize GLFW: no display", wrapped.Error())

	bare := &Error{Kind: LinkError}
	assert.Equal(t, "link error", bare.Error())
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("setup: %w", Errorf(LinkError, "link program", "mismatch"))

	assert.ErrorIs(t, err, ErrLink)
	assert.NotErrorIs(t, err, ErrCompile)
	assert.ErrorIs(t, err, &Error{Kind: LinkError, Op: "link program"})
	assert.NotErrorIs(t, err, &Error{Kind: LinkError, Op: "compile"})
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("driver gone")
	err := &Error{Kind: DrawError, Op: "draw", Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, AttributeResolutionError,
		KindOf(fmt.Errorf("wrap: %w", Errorf(AttributeResolutionError, "resolve", "x"))))
	assert.Equal(t, ErrorKind(0), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorKind(0), KindOf(nil))
}

func TestErrorKindFatal(t *testing.T) {
	for _, k := range []ErrorKind{ResourceAllocationError, CompileError, LinkError, MissingCapabilityError, AttributeResolutionError} {
		require.True(t, k.Fatal(), k.String())
	}
	assert.False(t, DrawError.Fatal())
	assert.Equal(t, "ErrorKind(99)", ErrorKind(99).String())
}
