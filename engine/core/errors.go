package core

import (
	"errors"
	"fmt"
)

var (
	ErrShaderFile       = errors.New("shader source unreadable")
	ErrShaderParse      = errors.New("malformed shader source")
	ErrShaderCompile    = errors.New("shader stage compilation failed")
	ErrShaderLink       = errors.New("shader program link failed")
	ErrResourceCreation = errors.New("graphics resource creation failed")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrUnknown          = errors.New("unknown")
)

// FileError reports a shader source file that could not be opened or read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("shader file '%s': %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() []error {
	return []error{ErrShaderFile, e.Err}
}

// ParseError reports malformed stage markers. Line is 1-based, 0 when the
// problem concerns the file as a whole.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("shader file '%s' line %d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("shader file '%s': %s", e.Path, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return ErrShaderParse
}

// CompileError carries the driver diagnostic for a rejected stage.
type CompileError struct {
	Stage string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

func (e *CompileError) Unwrap() error {
	return ErrShaderCompile
}

// LinkError carries the driver diagnostic for a rejected program.
type LinkError struct {
	Name string
	Log  string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link shader program '%s': %s", e.Name, e.Log)
}

func (e *LinkError) Unwrap() error {
	return ErrShaderLink
}

// ResourceCreationError reports a driver object (buffer, vertex array,
// shader stage, program) the driver refused to create.
type ResourceCreationError struct {
	Resource string
	Owner    string
}

func (e *ResourceCreationError) Error() string {
	return fmt.Sprintf("failed to create %s for '%s'", e.Resource, e.Owner)
}

func (e *ResourceCreationError) Unwrap() error {
	return ErrResourceCreation
}
