package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/algotrace/internal/compiler"
	"github.com/roach88/algotrace/internal/ir"
)

// LoadMode controls how errors are handled during workload loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the results of loading workloads from a directory.
type LoadResult struct {
	Workload  *ir.Workload
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during workload loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Line returns the source line of the error, or 0 when unknown.
func (e *LoadError) Line() int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

// errStopLoading ends case iteration in fail-fast mode.
var errStopLoading = errors.New("stop loading")

// LoadWorkloads loads and compiles the CUE workload cases of a directory.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all case errors.
//
// A nil result means nothing could be compiled at all (missing directory,
// no files, CUE build failure).
func LoadWorkloads(dir string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("workload directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing workload directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	// Find CUE files
	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	// Load CUE instances
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	// Check for load errors
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	// Build value from instance
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		Workload:  &ir.Workload{},
		CUEValue:  value,
		FileCount: len(cueFiles),
	}
	w := result.Workload

	sections := []struct {
		name    string
		compile func(cue.Value) error
	}{
		{compiler.SectionSort, func(v cue.Value) error {
			c, err := compiler.CompileSort(v)
			if err == nil {
				w.Sorts = append(w.Sorts, *c)
			}
			return err
		}},
		{compiler.SectionSearch, func(v cue.Value) error {
			c, err := compiler.CompileSearch(v)
			if err == nil {
				w.Searches = append(w.Searches, *c)
			}
			return err
		}},
		{compiler.SectionMaze, func(v cue.Value) error {
			c, err := compiler.CompileMaze(v)
			if err == nil {
				w.Mazes = append(w.Mazes, *c)
			}
			return err
		}},
	}

	for _, section := range sections {
		iterErr := compiler.EachCase(value, section.name, func(v cue.Value) error {
			if compileErr := section.compile(v); compileErr != nil {
				errs = append(errs, convertCompileError(compileErr, section.name+"."+labelOf(v)))
				if mode == LoadModeFailFast {
					return errStopLoading
				}
			}
			return nil
		})
		if iterErr != nil && !errors.Is(iterErr, errStopLoading) {
			errs = append(errs, convertCompileError(iterErr, section.name))
		}
		if mode == LoadModeFailFast && len(errs) > 0 {
			return result, errs
		}
	}

	// Check if we found anything
	if w.Len() == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no sort, search or maze cases found in workload"})
	}

	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// labelOf returns the case label of a section field.
func labelOf(v cue.Value) string {
	sel := v.Path().Selectors()
	if len(sel) == 0 {
		return ""
	}
	return sel[len(sel)-1].String()
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		where := context
		// A case-level error names the case, which context already ends with.
		if f := compileErr.Field; f != "" && f != context && !strings.HasSuffix(context, "."+f) {
			where = context + "." + f
		}
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s", where, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeDatabase    = "E008" // Journal open/read/write failed
	ErrCodeInvalidRun  = "E009" // Engine refused the run configuration
	ErrCodeBadInput    = "E010" // Malformed command-line input

	// Workload case errors
	ErrCodeCaseShape  = "E011" // Section or case is not a struct, unknown field
	ErrCodeAlgorithm  = "E012" // Missing or non-string algorithm
	ErrCodeNumbers    = "E013" // Missing numbers or non-integer element
	ErrCodeGrid       = "E014" // Missing grid or non-string row
	ErrCodeDimensions = "E015" // Missing or non-integer rows/cols
	ErrCodeSeed       = "E016" // Non-integer seed
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	switch field {
	case "algorithm":
		return ErrCodeAlgorithm
	case "numbers":
		return ErrCodeNumbers
	case "grid":
		return ErrCodeGrid
	case "rows", "cols":
		return ErrCodeDimensions
	case "seed":
		return ErrCodeSeed
	case "cue":
		return ErrCodeBuildFailed
	default:
		// Unknown-field and case-shape errors carry the offending label.
		return ErrCodeCaseShape
	}
}
