// Package errors provides examples of structured error handling for the
// dataset converter.
package errors_test

import (
	"fmt"
	"io"

	"github.com/FrankKr/power-grid-model/pkg/errors"
)

// Example demonstrates basic error creation and detail attachment.
func Example() {
	// Create a new error with type
	err := errors.New(errors.ErrorTypeUnknownAttribute, "attribute not part of component schema")

	// Add context details
	err = err.WithDetail("component", "sym_load").
		WithDetail("attribute", "p_specifed").
		WithDetail("data_type", "input")

	// Print the error
	fmt.Println(err.Error())

	// Output:
	// unknown_attribute: attribute not part of component schema
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	// Simulate an underlying error
	originalErr := io.EOF

	// Wrap the error with context
	err := errors.Wrap(originalErr, errors.ErrorTypeFile, "failed to read dataset file").
		WithDetail("path", "input.json")

	// Check the error type
	if errors.IsType(err, errors.ErrorTypeFile) {
		fmt.Println("This is a file error")
	}

	// Access the original error using Go's standard errors.Is
	if originalErr == io.EOF {
		fmt.Println("Original error was EOF")
	}

	// Output:
	// This is a file error
	// Original error was EOF
}

// ExampleGetType shows the type bucket used for metrics labels. Errors
// without a structured type fall back to internal.
func ExampleGetType() {
	typed := errors.New(errors.ErrorTypeUnknownComponent, "no such component")
	plain := io.ErrUnexpectedEOF

	fmt.Println(errors.GetType(typed))
	fmt.Println(errors.GetType(plain))

	// Output:
	// unknown_component
	// internal
}

// ExampleIsType demonstrates classifying conversion failures.
func ExampleIsType() {
	valueErr := errors.New(errors.ErrorTypeInvalidAttributeValue, "cannot store value").
		WithDetail("component", "node").
		WithDetail("attribute", "u_rated").
		WithDetail("value", "10.5kV")

	mixedErr := errors.Newf(errors.ErrorTypeMixedBatchData, "mixed batch and non-batch data (%s)", "line")

	fmt.Println(errors.IsType(valueErr, errors.ErrorTypeInvalidAttributeValue))
	fmt.Println(errors.IsType(mixedErr, errors.ErrorTypeInvalidAttributeValue))
	fmt.Println(mixedErr.Error())

	// Output:
	// true
	// false
	// mixed_batch_data: mixed batch and non-batch data (line)
}
