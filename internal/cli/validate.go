package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/algotrace/internal/compiler"
	"github.com/roach88/algotrace/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Sorts    int                        `json:"sorts"`
	Searches int                        `json:"searches"`
	Mazes    int                        `json:"mazes"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <workload-dir>",
		Short: "Validate workload cases without running them",
		Long: `Validate the CUE workload cases of a directory without running them.

Compiles every sort, search and maze case, then checks each one against the
engines it would run on: algorithm names, input size limits, grid shape and
endpoints, maze dimensions.

Examples:
  algotrace validate ./workloads
  algotrace validate ./workloads --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	// Collect every compile error so one pass reports them all
	loadResult, loadErrors := LoadWorkloads(dir, LoadModeCollectAll)

	// Handle load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	validationErrors := loadErrorsToValidation(loadErrors)
	validationErrors = append(validationErrors, validateWorkload(loadResult.Workload, formatter)...)

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}

	return outputValidateSuccess(formatter, loadResult.Workload)
}

// validateWorkload runs engine-level checks on every compiled case.
func validateWorkload(w *ir.Workload, formatter *OutputFormatter) []compiler.ValidationError {
	for _, c := range w.Sorts {
		formatter.VerboseLog("Validating sort case: %s (%s)", c.Name, c.Algorithm)
	}
	for _, c := range w.Searches {
		formatter.VerboseLog("Validating search case: %s (%s)", c.Name, c.Algorithm)
	}
	for _, c := range w.Mazes {
		formatter.VerboseLog("Validating maze case: %s (%dx%d, %s)", c.Name, c.Rows, c.Cols, c.Algorithm)
	}
	return compiler.Validate(w)
}

// loadErrorsToValidation converts compile errors to validation errors.
func loadErrorsToValidation(errs []error) []compiler.ValidationError {
	var out []compiler.ValidationError
	for _, err := range errs {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			out = append(out, compiler.ValidationError{
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
				Line:    loadErr.Line(),
			})
			continue
		}
		out = append(out, compiler.ValidationError{
			Field:   "load",
			Message: err.Error(),
			Code:    ErrCodeGeneric,
		})
	}
	return out
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, w *ir.Workload) error {
	if formatter.JSON() {
		return formatter.Success(ValidationResult{
			Valid:    true,
			Sorts:    len(w.Sorts),
			Searches: len(w.Searches),
			Mazes:    len(w.Mazes),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ All cases valid (%d sort, %d search, %d maze)\n",
		len(w.Sorts), len(w.Searches), len(w.Mazes))
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.JSON() {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.Respond(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
