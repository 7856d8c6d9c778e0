package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Enabled(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	tp, shutdown, err := Setup(ctx, true, &buf)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(ctx, "tenant")
	span.End()

	require.NoError(t, shutdown(ctx))
	assert.Contains(t, buf.String(), `"Name":"tenant"`)
}

func TestSetup_Disabled(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	tp, shutdown, err := Setup(ctx, false, &buf)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(ctx, "tenant")
	span.End()

	require.NoError(t, shutdown(ctx))
	assert.Empty(t, buf.String())
}
