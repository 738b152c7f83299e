package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/evadb/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeInvalidMode, "unsupported core.mode")
	require.NotNil(t, ae)
	assert.Equal(t, errors.CodeInvalidMode, ae.Code)
	assert.Equal(t, "unsupported core.mode", ae.Message)
	assert.Empty(t, ae.Detail)
	assert.Nil(t, ae.Cause)
	assert.Equal(t, "[BOOT_003] unsupported core.mode", ae.Error())
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("permission denied")
	ae := errors.Wrap(root, errors.CodeDirectoryCreate, "create config dir").WithDetail("/tmp/x")

	assert.True(t, stderrors.Is(ae, root))
	assert.Equal(t, "[BOOT_004] create config dir: /tmp/x: permission denied", ae.Error())
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeMalformedConfig, "bad yaml")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")
	assert.Equal(t, errors.CodeMalformedConfig, outer.Code)
}

func TestIsCode_WalksChain(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeMissingInstallation, "no udfs")
	outer := errors.Wrap(inner, errors.CodeAssetCopy, "copy failed")
	wrapped := fmt.Errorf("bootstrap: %w", outer)

	assert.True(t, errors.IsCode(wrapped, errors.CodeAssetCopy))
	assert.True(t, errors.IsCode(wrapped, errors.CodeMissingInstallation))
	assert.False(t, errors.IsCode(wrapped, errors.CodeInvalidMode))
	assert.False(t, errors.IsCode(stderrors.New("plain"), errors.CodeInternal))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeConfigWrite,
		errors.GetCode(fmt.Errorf("ctx: %w", errors.New(errors.CodeConfigWrite, "x"))))
}

func TestWithDetail_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "core.mode must be debug or release", errors.Describe(errors.CodeInvalidMode))
	assert.Equal(t, "unknown error", errors.Describe(errors.ErrorCode("NOPE")))
}
