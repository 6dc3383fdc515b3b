// Package input collects validated numeric measurements from an interactive
// source. Invalid entries (non-numeric, out of range) are reported to the
// user and re-prompted; the retry budget is bounded, so a non-interactive or
// exhausted source yields a typed error instead of looping forever.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DeepanshuK43/cropml/pkg/errors"
)

// Field describes one value to collect: a display name and the closed range
// that is accepted.
type Field struct {
	Name string
	Unit string
	Min  float64
	Max  float64
}

// DefaultMaxAttempts bounds retries per field.
const DefaultMaxAttempts = 10

// Collector reads prompted values line by line.
type Collector struct {
	scanner     *bufio.Scanner
	out         io.Writer
	maxAttempts int
}

// Option configures a Collector.
type Option func(*Collector)

// WithMaxAttempts overrides the per-field retry budget.
func WithMaxAttempts(n int) Option {
	return func(c *Collector) { c.maxAttempts = n }
}

// NewCollector wraps an input source and a prompt sink.
func NewCollector(in io.Reader, out io.Writer, opts ...Option) *Collector {
	c := &Collector{
		scanner:     bufio.NewScanner(in),
		out:         out,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect prompts for one field until a parseable value inside
// [field.Min, field.Max] arrives, or the attempt budget runs out.
func (c *Collector) Collect(field Field) (float64, error) {
	last := ""
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		fmt.Fprintf(c.out, "Enter %s (%s) in [%g, %g]: ", field.Name, field.Unit, field.Min, field.Max)

		if !c.scanner.Scan() {
			// Source exhausted or failed; no more values will come.
			return 0, errors.NewInvalidInputError(field.Name, attempt, last)
		}
		last = strings.TrimSpace(c.scanner.Text())

		value, err := strconv.ParseFloat(last, 64)
		if err != nil {
			fmt.Fprintf(c.out, "%q is not a number, try again\n", last)
			continue
		}
		if value < field.Min || value > field.Max {
			fmt.Fprintf(c.out, "%g is outside [%g, %g], try again\n", value, field.Min, field.Max)
			continue
		}
		return value, nil
	}
	return 0, errors.NewInvalidInputError(field.Name, c.maxAttempts, last)
}

// CollectVector collects every field in order and returns the assembled
// feature vector.
func (c *Collector) CollectVector(fields []Field) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := c.Collect(f)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
