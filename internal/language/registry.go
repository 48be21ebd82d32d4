package language

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownParser   = errors.New("unknown parser")
	ErrUnknownDetector = errors.New("unknown detector")
	ErrUnknownSpecial  = errors.New("unknown special parser")
)

// Registry is the catalog of named parsers, detectors and special parsers that
// configuration can refer to by id.
type Registry struct {
	parsers   map[string]Parser
	detectors map[string]Detector
	specials  map[string]Parser
}

func NewRegistry() *Registry {
	return &Registry{
		parsers:   make(map[string]Parser),
		detectors: make(map[string]Detector),
		specials:  make(map[string]Parser),
	}
}

func (r *Registry) RegisterParser(parser Parser, aliases ...string) error {
	if parser == nil {
		return errors.New("parser is nil")
	}
	return register(r.parsers, "parser", parser, parser.ID(), aliases)
}

func (r *Registry) RegisterDetector(detector Detector) error {
	if detector == nil {
		return errors.New("detector is nil")
	}
	return register(r.detectors, "detector", detector, detector.ID(), nil)
}

func (r *Registry) RegisterSpecial(parser Parser) error {
	if parser == nil {
		return errors.New("special parser is nil")
	}
	return register(r.specials, "special parser", parser, parser.ID(), nil)
}

func (r *Registry) Parser(id string) (Parser, error) {
	return lookup(r, func(reg *Registry) map[string]Parser { return reg.parsers }, id, ErrUnknownParser)
}

func (r *Registry) Detector(id string) (Detector, error) {
	return lookup(r, func(reg *Registry) map[string]Detector { return reg.detectors }, id, ErrUnknownDetector)
}

func (r *Registry) Special(id string) (Parser, error) {
	return lookup(r, func(reg *Registry) map[string]Parser { return reg.specials }, id, ErrUnknownSpecial)
}

func (r *Registry) Detectors(ids []string) ([]Detector, error) {
	out := make([]Detector, 0, len(ids))
	for _, id := range ids {
		detector, err := r.Detector(id)
		if err != nil {
			return nil, err
		}
		out = append(out, detector)
	}
	return out, nil
}

func (r *Registry) Specials(ids []string) ([]Parser, error) {
	out := make([]Parser, 0, len(ids))
	for _, id := range ids {
		special, err := r.Special(id)
		if err != nil {
			return nil, err
		}
		out = append(out, special)
	}
	return out, nil
}

func (r *Registry) ParserIDs() []string {
	if r == nil {
		return nil
	}
	return primaryIDs(r.parsers, Parser.ID)
}

func (r *Registry) DetectorIDs() []string {
	if r == nil {
		return nil
	}
	return primaryIDs(r.detectors, Detector.ID)
}

func (r *Registry) SpecialIDs() []string {
	if r == nil {
		return nil
	}
	return primaryIDs(r.specials, Parser.ID)
}

func register[T comparable](dest map[string]T, kind string, value T, id string, aliases []string) error {
	ids := append([]string{id}, aliases...)
	for _, item := range ids {
		key := normalizeID(item)
		if key == "" {
			return fmt.Errorf("%s id cannot be empty", kind)
		}
		if _, exists := dest[key]; exists {
			return fmt.Errorf("%s id already registered: %s", kind, item)
		}
	}

	for _, item := range ids {
		dest[normalizeID(item)] = value
	}
	return nil
}

func lookup[T any](r *Registry, pick func(*Registry) map[string]T, id string, notFound error) (T, error) {
	var zero T
	if r == nil {
		return zero, errors.New("language registry is nil")
	}
	value, ok := pick(r)[normalizeID(id)]
	if !ok {
		return zero, fmt.Errorf("%w: %s", notFound, strings.TrimSpace(id))
	}
	return value, nil
}

func primaryIDs[T comparable](source map[string]T, idOf func(T) string) []string {
	seen := make(map[T]struct{})
	ids := make([]string, 0, len(source))
	for _, value := range source {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		ids = append(ids, idOf(value))
	}

	sort.Strings(ids)
	return ids
}

func normalizeID(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
