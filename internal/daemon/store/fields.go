package store

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// phaseFields lists the settable field names of each phase record, in
// display order. lastUpdated is stamped by the store and never settable.
var phaseFields = map[Phase][]string{
	PhaseDesign: {
		"requirementsCompleted", "requirementsTotal",
		"mockupsCompleted", "mockupsTotal",
		"prototypesCompleted", "prototypesTotal",
		"architectureCompleted", "architectureTotal",
	},
	PhaseCode: {
		"linesOfCode", "commits", "pullRequests", "codeReviews", "technicalDebt", "coverage",
	},
	PhaseBuild: {
		"buildsTotal", "buildsSuccessful", "buildsFailed", "buildTime", "dependencies", "securityVulnerabilities",
	},
	PhaseQA: {
		"testsTotal", "testsPassed", "testsFailed", "coverage", "bugsFound", "bugsResolved", "performanceScore",
	},
	PhaseDeploy: {
		"deploymentsTotal", "deploymentsSuccessful", "deploymentsFailed", "uptime", "responseTime", "errorRate",
	},
	PhaseMonitor: {
		"systemHealth", "activeUsers", "requestsPerMinute", "errorRate", "cpuUsage", "memoryUsage", "alerts",
	},
}

// FieldNames returns the settable field names of a phase record.
func FieldNames(p Phase) []string {
	names := phaseFields[p]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// ParseFields turns "name=value" pairs into Fields. Values stay strings and
// are converted when the update is applied.
func ParseFields(pairs []string) (Fields, error) {
	fields := make(Fields, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("expected field=value, got %q", pair)
		}
		fields[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return fields, nil
}

// merge applies fields to the record of one phase. The record is replaced
// only if every field decodes.
func (p *Phases) merge(phase Phase, fields Fields, now time.Time) error {
	switch phase {
	case PhaseDesign:
		return mergeInto(&p.Design, fields, now)
	case PhaseCode:
		return mergeInto(&p.Code, fields, now)
	case PhaseBuild:
		return mergeInto(&p.Build, fields, now)
	case PhaseQA:
		return mergeInto(&p.QA, fields, now)
	case PhaseDeploy:
		return mergeInto(&p.Deploy, fields, now)
	case PhaseMonitor:
		return mergeInto(&p.Monitor, fields, now)
	}
	return fmt.Errorf("unknown phase %q", phase)
}

func mergeInto[T any, PT interface {
	*T
	touch(time.Time)
}](dst PT, fields Fields, now time.Time) error {
	next := *dst
	if err := decodeFields(fields, &next); err != nil {
		return err
	}
	PT(&next).touch(now)
	*dst = next
	return nil
}

func decodeFields(fields Fields, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      target,
		ErrorUnused: true,
		DecodeHook:  mapstructure.DecodeHookFuncType(numericStringHook),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	return decoder.Decode(map[string]any(fields))
}

// numericStringHook lets string values (from the CLI or query strings)
// decode into float64 fields without enabling weakly typed input, which
// would also accept booleans.
func numericStringHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Float64 {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not a number", v)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("value %q is not a finite number", v)
		}
		return f, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("value %v is not a finite number", v)
		}
	}
	return data, nil
}

// FieldValues returns the numeric fields of a phase record keyed by their
// JSON names. It returns nil for anything that is not a phase record.
func FieldValues(record any) map[string]float64 {
	rv := reflect.ValueOf(record)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	rt := rv.Type()
	values := make(map[string]float64, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).Type.Kind() != reflect.Float64 {
			continue
		}
		name, _, _ := strings.Cut(rt.Field(i).Tag.Get("json"), ",")
		values[name] = rv.Field(i).Float()
	}
	return values
}
