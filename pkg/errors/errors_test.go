package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/huijiwiki/wikimap/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "page",
			Name:     "Data:Orokin.json",
		}
		assert.Equal(t, "page Data:Orokin.json not found or has no content", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("file", "Marker-icon.png")
		assert.Equal(t, "file Marker-icon.png not found or has no content", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("page", "Data:Test.json")
		wrapped := errors.Join(errors.New("load failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "coords",
			Message: "missing numeric x/y",
		}
		assert.Equal(t, "validation failed for field coords: missing numeric x/y", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "not an object",
		}
		assert.Equal(t, "validation failed: not an object", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestAPIError(t *testing.T) {
	t.Run("message format", func(t *testing.T) {
		err := pkgerrors.NewAPIError("ratelimited", "too many requests", "/api.php")
		assert.Contains(t, err.Error(), "ratelimited")
		assert.Contains(t, err.Error(), "too many requests")
	})

	t.Run("unauthorized codes", func(t *testing.T) {
		for _, code := range []string{"permissiondenied", "protectedpage", "badtoken", "readonly"} {
			err := pkgerrors.NewAPIError(code, "no", "/api.php")
			assert.True(t, pkgerrors.IsUnauthorized(err), "code %s should map to ErrUnauthorized", code)
			assert.False(t, pkgerrors.IsConflict(err))
		}
	})

	t.Run("conflict code", func(t *testing.T) {
		err := pkgerrors.NewAPIError("editconflict", "edit conflict detected", "/api.php")
		assert.True(t, pkgerrors.IsConflict(err))
		assert.False(t, pkgerrors.IsUnauthorized(err))
	})

	t.Run("missing title code", func(t *testing.T) {
		err := pkgerrors.NewAPIError("missingtitle", "the page does not exist", "/api.php")
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("unknown code matches nothing", func(t *testing.T) {
		err := pkgerrors.NewAPIError("internal_api_error", "boom", "/api.php")
		assert.False(t, pkgerrors.IsUnauthorized(err))
		assert.False(t, pkgerrors.IsConflict(err))
		assert.False(t, pkgerrors.IsNotFound(err))
	})
}

func TestParseError(t *testing.T) {
	t.Run("with source", func(t *testing.T) {
		base := errors.New("unexpected end of JSON input")
		err := pkgerrors.WrapParse("json", "Data:Orokin.json", base)
		assert.Contains(t, err.Error(), "Data:Orokin.json")
		assert.True(t, pkgerrors.IsMalformed(err))
		assert.True(t, errors.Is(err, base))
	})

	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapParse("json", "x", nil))
	})
}

func TestTimeoutError(t *testing.T) {
	err := pkgerrors.NewTimeoutError("fetch document", "10s", nil)
	assert.Contains(t, err.Error(), "10s")
	assert.True(t, pkgerrors.IsTimeout(err))
}

func TestNetworkError(t *testing.T) {
	base := errors.New("connection refused")
	err := pkgerrors.WrapNetwork("save", "/api.php", base)
	assert.Contains(t, err.Error(), "save")
	assert.True(t, errors.Is(err, base))
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("data-tile-base-zoom", "missing or malformed", nil)
	assert.Contains(t, err.Error(), "data-tile-base-zoom")
}

func TestEmptyDocumentSentinel(t *testing.T) {
	assert.True(t, pkgerrors.IsEmptyDocument(pkgerrors.ErrEmptyDocument))
	assert.False(t, pkgerrors.IsEmptyDocument(pkgerrors.ErrNotFound))
}
