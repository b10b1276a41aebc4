package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const (
	NoError          uint32 = gl.NO_ERROR
	InvalidEnum      uint32 = gl.INVALID_ENUM
	InvalidValue     uint32 = gl.INVALID_VALUE
	InvalidOperation uint32 = gl.INVALID_OPERATION
	OutOfMemory      uint32 = gl.OUT_OF_MEMORY

	InvalidFramebufferOperation uint32 = gl.INVALID_FRAMEBUFFER_OPERATION
)

// AllocationError means the driver returned a zero name for a new object.
type AllocationError struct {
	Object string
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("unable to create %s", e.Object)
}

// CompileError carries the compiler's info log.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError carries the linker's info log.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

type LookupError struct {
	Attribute string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("could not find attribute %s", e.Attribute)
}

// DriverError is a GL error flag observed by CheckError.
type DriverError struct {
	Op   string
	Code uint32
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s: glError %s", e.Op, ErrorString(e.Code))
}

func ErrorString(code uint32) string {
	switch code {
	case NoError:
		return "GL_NO_ERROR"
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return fmt.Sprintf("0x%04x", code)
	}
}

const maxPendingErrors = 16

// CheckError drains every pending error flag on dev and reports the first
// one, so a failed operation is not blamed on a later call.
func CheckError(dev Device, op string) error {
	var first *DriverError
	// a lost context keeps reporting errors, so give up after a few
	for i := 0; i < maxPendingErrors; i++ {
		code := dev.Error()
		if code == NoError {
			break
		}
		if first == nil {
			first = &DriverError{Op: op, Code: code}
		}
	}
	if first == nil {
		return nil
	}
	return first
}
