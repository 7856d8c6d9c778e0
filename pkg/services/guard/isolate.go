package guard

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/de-tools/tenant-health/pkg/services/guard")

// Isolate runs task inside its own span and turns both returned errors and
// panics into a failed Result. It never panics itself.
func Isolate[T any](ctx context.Context, name string, task func(context.Context) (T, error)) (result domain.Result[T]) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%s panicked: %v", name, r)
			zerolog.Ctx(ctx).Error().
				Str("task", name).
				Bytes("stack", debug.Stack()).
				Msg(err.Error())
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			result = domain.Err[T](err)
		}
	}()

	value, err := task(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Err[T](err)
	}

	return domain.Ok(value)
}
