package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/nick-dorsch/todoboard/embed/schema"
	"github.com/nick-dorsch/todoboard/pkg/models"
)

var ErrUnsupportedFormat = errors.New("unsupported seed file format")

// ValidationError points at the offending part of a seed file.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

type file struct {
	Todos []record `json:"todos" toml:"todos" yaml:"todos"`
}

type record struct {
	ID          int64  `json:"id" toml:"id" yaml:"id"`
	Title       string `json:"title" toml:"title" yaml:"title"`
	Description string `json:"description" toml:"description" yaml:"description"`
	Status      string `json:"status" toml:"status" yaml:"status"`
	CreatedDate string `json:"createdDate" toml:"createdDate" yaml:"createdDate"`
	DueDate     string `json:"dueDate" toml:"dueDate" yaml:"dueDate"`
	Completed   string `json:"completedDate" toml:"completedDate" yaml:"completedDate"`
}

// Load reads seed todos from path. The format follows the file extension:
// .toml, .yaml/.yml or .json. JSON files are checked against the embedded
// schema before decoding.
func Load(path string) ([]models.Todo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes seed data in the format named by ext.
func Parse(ext string, data []byte) ([]models.Todo, error) {
	var f file
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("parse toml seed: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse yaml seed: %w", err)
		}
	case ".json":
		if err := validateJSON(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse json seed: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return f.todos()
}

func (f file) todos() ([]models.Todo, error) {
	var maxID int64
	for _, r := range f.Todos {
		if r.ID > maxID {
			maxID = r.ID
		}
	}

	seen := make(map[int64]bool, len(f.Todos))
	todos := make([]models.Todo, 0, len(f.Todos))
	for i, r := range f.Todos {
		path := fmt.Sprintf("todos[%d]", i)
		if strings.TrimSpace(r.Title) == "" {
			return nil, &ValidationError{Path: path + ".title", Err: errors.New("title is required")}
		}

		id := r.ID
		if id == 0 {
			maxID++
			id = maxID
		}
		if id < 0 {
			return nil, &ValidationError{Path: path + ".id", Err: fmt.Errorf("id must be positive, got %d", id)}
		}
		if seen[id] {
			return nil, &ValidationError{Path: path + ".id", Err: fmt.Errorf("duplicate id %d", id)}
		}
		seen[id] = true

		t := models.Todo{
			ID:          id,
			Title:       r.Title,
			Description: r.Description,
			Status:      models.TodoStatusPending,
		}
		if r.Status != "" {
			status, err := models.ParseTodoStatus(r.Status)
			if err != nil {
				// Unknown statuses are kept; stats count them in the total only.
				status = models.TodoStatus(r.Status)
			}
			t.Status = status
		}

		var err error
		if t.CreatedAt, err = parseDate(r.CreatedDate); err != nil {
			return nil, &ValidationError{Path: path + ".createdDate", Err: err}
		}
		if t.DueDate, err = parseOptionalDate(r.DueDate); err != nil {
			return nil, &ValidationError{Path: path + ".dueDate", Err: err}
		}
		if t.CompletedAt, err = parseOptionalDate(r.Completed); err != nil {
			return nil, &ValidationError{Path: path + ".completedDate", Err: err}
		}

		todos = append(todos, t)
	}
	return todos, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func validateJSON(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("seed.schema.json", strings.NewReader(schema.Seed)); err != nil {
		return fmt.Errorf("load seed schema: %w", err)
	}
	sch, err := compiler.Compile("seed.schema.json")
	if err != nil {
		return fmt.Errorf("compile seed schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse json seed: %w", err)
	}

	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return &ValidationError{Err: err}
		}
		return firstLeafError(ve)
	}
	return nil
}

func firstLeafError(ve *jsonschema.ValidationError) error {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	path := strings.TrimPrefix(ve.InstanceLocation, "/")
	path = strings.ReplaceAll(path, "/", ".")
	return &ValidationError{Path: path, Err: errors.New(ve.Message)}
}
