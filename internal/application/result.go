package application

// Kind classifies the outcome of a service operation. Handlers map it to an HTTP status.
type Kind int

const (
	KindOK Kind = iota
	KindCreated
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindCreated:
		return "created"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// InternalErrorMessage is the only message an Internal result ever carries to callers.
const InternalErrorMessage = "an internal error occurred"

// Result is returned by every service operation. Expected failures travel here
// instead of as errors; the zero value is an Internal failure.
type Result[T any] struct {
	kind    Kind
	value   T
	message string
	set     bool
}

func OK[T any](v T) Result[T]      { return Result[T]{kind: KindOK, value: v, set: true} }
func Created[T any](v T) Result[T] { return Result[T]{kind: KindCreated, value: v, set: true} }

func BadRequest[T any](msg string) Result[T]   { return Failure[T](KindBadRequest, msg) }
func Unauthorized[T any](msg string) Result[T] { return Failure[T](KindUnauthorized, msg) }
func Forbidden[T any](msg string) Result[T]    { return Failure[T](KindForbidden, msg) }
func NotFound[T any](msg string) Result[T]     { return Failure[T](KindNotFound, msg) }
func Internal[T any]() Result[T]               { return Failure[T](KindInternal, InternalErrorMessage) }

// Failure builds a failed result of the given kind.
func Failure[T any](kind Kind, msg string) Result[T] {
	return Result[T]{kind: kind, message: msg, set: true}
}

// Propagate re-types a failed result so it can be returned from an operation with another payload.
func Propagate[U, T any](r Result[T]) Result[U] {
	return Failure[U](r.Kind(), r.Message())
}

func (r Result[T]) Kind() Kind {
	if !r.set {
		return KindInternal
	}
	return r.kind
}

func (r Result[T]) Succeeded() bool {
	k := r.Kind()
	return k == KindOK || k == KindCreated
}

func (r Result[T]) Value() T { return r.value }

func (r Result[T]) Message() string {
	if !r.set {
		return InternalErrorMessage
	}
	return r.message
}
