// Package yaml renders results as YAML documents, one per call.
package yaml

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
)

// Renderer writes YAML output
type Renderer struct {
	output  io.Writer
	written bool
}

// New creates a new YAML renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

func (r *Renderer) encode(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	if r.written {
		if _, err := io.WriteString(r.output, "---\n"); err != nil {
			return err
		}
	}
	r.written = true
	_, err = r.output.Write(data)
	return err
}

// RenderResult renders any result type as YAML
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encode(result)
}

// ErrorObject is the YAML shape of a failed command.
type ErrorObject struct {
	Error   string                 `yaml:"error"`
	Code    errors.ErrorCode       `yaml:"code,omitempty"`
	Details map[string]interface{} `yaml:"details,omitempty"`
}

// RenderError renders an error as YAML
func (r *Renderer) RenderError(err error) error {
	obj := ErrorObject{Error: err.Error(), Details: errors.GetErrorDetails(err)}
	var be *errors.BrowserError
	if errors.As(err, &be) {
		obj.Error = be.Message
		obj.Code = be.Code
	}
	return r.encode(obj)
}

// RenderMessage renders a simple message as YAML
func (r *Renderer) RenderMessage(msg string) error {
	return r.encode(map[string]string{"message": msg})
}
