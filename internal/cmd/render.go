package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/whmcsguru/ExceptionParser/internal/aggregator"
	"github.com/whmcsguru/ExceptionParser/internal/model"
	"github.com/whmcsguru/ExceptionParser/internal/output"
)

// newRenderer picks the renderer named by the output setting.
func newRenderer(w io.Writer) (output.Renderer, error) {
	switch strings.ToLower(viper.GetString("output")) {
	case "json":
		return output.NewJSONRenderer(w), nil
	case "text", "":
		return output.NewTextRenderer(w, viper.GetBool("color")), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text or json)", viper.GetString("output"))
	}
}

// tallyRenderer records each outcome before handing it on.
type tallyRenderer struct {
	next output.Renderer
	agg  *aggregator.Aggregator
}

func (r *tallyRenderer) Render(outcome model.Outcome) error {
	r.agg.Record(outcome)
	return r.next.Render(outcome)
}
