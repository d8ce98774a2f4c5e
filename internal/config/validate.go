package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError is a config problem located by file and either a line
// (syntax) or a config key (values).
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	// Field is the config key, e.g. watch_debounce.
	Field string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
}

// yamlLine matches the position prefix of yaml.v3 syntax errors,
// e.g. "yaml: line 5: could not find expected ':'".
var yamlLine = regexp.MustCompile(`^yaml: line (\d+):(?: column (\d+):)? `)

// ValidateYAMLSyntax checks that the file at filePath parses as YAML so that a
// broken config is reported with its line instead of a koanf load error.
// A missing or blank file is valid.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case errors.Is(err, fs.ErrPermission):
		return &ValidationError{FilePath: filePath, Message: "permission denied"}
	case err != nil:
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var node yaml.Node
	err = yaml.Unmarshal(data, &node)
	if err == nil {
		return nil
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{FilePath: filePath, Message: strings.Join(typeErr.Errors, "; ")}
	}

	valErr := &ValidationError{FilePath: filePath, Message: err.Error()}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		valErr.Line, _ = strconv.Atoi(m[1])
		valErr.Column = 1
		if m[2] != "" {
			valErr.Column, _ = strconv.Atoi(m[2])
		}
		valErr.Message = err.Error()[len(m[0]):]
	}
	return valErr
}

// validate checks Configuration struct tags and names fields by their koanf key.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}()

// ValidateConfigValues checks the loaded values: the struct tag rules, and
// that the target directory is not the source directory.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &ValidationError{
				FilePath: filePath,
				Field:    fieldErrs[0].Field(),
				Message:  describeRule(fieldErrs[0]),
			}
		}
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	if cfg.SourceDir != "" && cfg.TargetDir != "" && filepath.Clean(cfg.SourceDir) == filepath.Clean(cfg.TargetDir) {
		return &ValidationError{
			FilePath: filePath,
			Field:    "target_dir",
			Message:  "must differ from source_dir",
		}
	}
	return nil
}

func describeRule(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fieldErr.Param()
	case "max":
		return "must be at most " + fieldErr.Param()
	default:
		return "failed validation: " + fieldErr.Tag()
	}
}
