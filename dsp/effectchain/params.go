package effectchain

import (
	"errors"
	"fmt"
	"math"
)

// Params holds the parsed parameters for a single chain node.
type Params struct {
	ID       string
	Type     string
	Bypassed bool
	Num      map[string]float64
	Str      map[string]string
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if v, ok := p.num(key); ok {
		return v
	}
	return def
}

// GetStr extracts a string parameter, returning def if missing.
func (p Params) GetStr(key, def string) string {
	if v, ok := p.Str[key]; ok {
		return v
	}
	return def
}

func (p Params) num(key string) (float64, bool) {
	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// setter applies present parameters to an effect and collects the errors.
type setter struct {
	p    Params
	errs []error
}

func (s *setter) set(key string, fn func(float64) error) {
	v, ok := s.p.num(key)
	if !ok {
		return
	}
	if err := fn(v); err != nil {
		s.errs = append(s.errs, fmt.Errorf("%s.%s: %w", s.p.ID, key, err))
	}
}

// scaled is set with the value multiplied by scale, for ms parameters
// feeding setters in seconds.
func (s *setter) scaled(key string, scale float64, fn func(float64) error) {
	s.set(key, func(v float64) error { return fn(v * scale) })
}

func (s *setter) err() error { return errors.Join(s.errs...) }

func parseNodeParams(raw map[string]any) (map[string]float64, map[string]string) {
	num := map[string]float64{}
	str := map[string]string{}

	for k, v := range raw {
		switch t := v.(type) {
		case float64:
			num[k] = t
		case string:
			str[k] = t
		case bool:
			if t {
				num[k] = 1
			} else {
				num[k] = 0
			}
		}
	}

	return num, str
}
